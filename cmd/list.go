package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List photos in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		photos, err := Store.ListPhotos(listLimit, listOffset)
		if err != nil {
			return err
		}

		if len(photos) == 0 {
			fmt.Println("No photos found in database")
			return nil
		}

		fmt.Printf("Photos (showing %d from offset %d):\n", len(photos), listOffset)
		for _, photo := range photos {
			fmt.Printf("   ID %3d: %s\n", photo.ID, photo.FileName)
			if photo.Width != nil && photo.Height != nil {
				fmt.Printf("        Dimensions: %dx%d\n", *photo.Width, *photo.Height)
			}
			fmt.Printf("        Ingested: %s\n", time.Unix(photo.UpdatedAt, 0).Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Number of photos to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of photos to skip")
	rootCmd.AddCommand(listCmd)
}
