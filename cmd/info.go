package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var infoPhotoID uint

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show detailed information about a photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := Store.GetPhotoInfo(infoPhotoID)
		if err != nil {
			return err
		}

		photo := detail.Photo
		fmt.Printf("Photo details (ID: %d)\n", photo.ID)
		fmt.Printf("   File: %s\n", photo.FileName)
		fmt.Printf("   Path: %s\n", photo.FilePath)
		if photo.Width != nil && photo.Height != nil {
			fmt.Printf("   Dimensions: %dx%d\n", *photo.Width, *photo.Height)
		}
		if photo.Format != nil {
			fmt.Printf("   Format: %s\n", *photo.Format)
		}
		fmt.Printf("   File size: %d bytes\n", photo.FileSize)
		if photo.ProcessingModel != nil {
			fmt.Printf("   Model used: %s\n", *photo.ProcessingModel)
		}
		fmt.Printf("   Created: %s\n", time.Unix(photo.CreatedAt, 0).Format(time.RFC3339))
		fmt.Printf("   Updated: %s\n", time.Unix(photo.UpdatedAt, 0).Format(time.RFC3339))

		if exif := detail.Exif; exif != nil {
			fmt.Println("\nEXIF data:")
			if exif.CameraMake != nil || exif.CameraModel != nil {
				fmt.Printf("   Camera: %s %s\n", deref(exif.CameraMake), deref(exif.CameraModel))
			}
			if exif.TakenAt != nil {
				fmt.Printf("   Taken: %s\n", time.Unix(*exif.TakenAt, 0).Format(time.RFC3339))
			}
			if exif.ExposureTime != nil {
				fmt.Printf("   Exposure: %s\n", *exif.ExposureTime)
			}
			if exif.Aperture != nil {
				fmt.Printf("   Aperture: f/%.1f\n", *exif.Aperture)
			}
			if exif.ISO != nil {
				fmt.Printf("   ISO: %d\n", *exif.ISO)
			}
			if exif.GPSLatitude != nil && exif.GPSLongitude != nil {
				fmt.Printf("   GPS: %.6f, %.6f\n", *exif.GPSLatitude, *exif.GPSLongitude)
			}
		}

		if len(detail.ObjectSummaries) > 0 {
			fmt.Printf("\nObjects detected (%d classes):\n", len(detail.ObjectSummaries))
			for _, summary := range detail.ObjectSummaries {
				fmt.Printf("   %s: %d (avg: %.2f, max: %.2f)\n",
					summary.ClassLabel, summary.TotalCount, summary.AvgConfidence, summary.MaxConfidence)
			}
		} else {
			fmt.Println("\nNo objects detected")
		}

		if fs := detail.FaceSummary; fs != nil && fs.TotalFaces > 0 {
			fmt.Printf("\nFaces: %d total, %d recognized, %d unrecognized\n",
				fs.TotalFaces, fs.RecognizedFaces, fs.UnrecognizedFaces)
			for _, face := range detail.FaceDetections {
				if face.KnownFace != nil {
					fmt.Printf("   %s", face.KnownFace.Name)
					if face.MatchDistance != nil {
						fmt.Printf(" (distance: %.3f)", *face.MatchDistance)
					}
					fmt.Println()
				}
			}
		}
		return nil
	},
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	infoCmd.Flags().UintVar(&infoPhotoID, "photo-id", 0, "Photo ID")
	_ = infoCmd.MarkFlagRequired("photo-id")
	rootCmd.AddCommand(infoCmd)
}
