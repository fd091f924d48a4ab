package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store-wide statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := Store.GetStatistics()
		if err != nil {
			return err
		}

		fmt.Println("Database statistics:")
		fmt.Printf("   Total photos: %d\n", stats.TotalPhotos)
		fmt.Printf("   Total object detections: %d\n", stats.TotalDetections)
		fmt.Printf("   Photos with GPS: %d\n", stats.PhotosWithGPS)
		fmt.Printf("   Recognized faces: %d\n", stats.RecognizedFaces)
		fmt.Printf("   Unrecognized faces: %d\n", stats.UnrecognizedFaces)
		fmt.Printf("   Known face encodings: %d (%d identities)\n", stats.KnownFaces, stats.KnownIdentities)

		if len(stats.TopClasses) > 0 {
			fmt.Println("\nTop object classes:")
			for i, class := range stats.TopClasses {
				fmt.Printf("   %2d. %s: %d\n", i+1, class.ClassLabel, class.Total)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
