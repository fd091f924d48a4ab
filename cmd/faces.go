package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// faceEnrollment is one entry of the enrollment file the external face engine
// produces: a named identity with a reference encoding.
type faceEnrollment struct {
	Name            string    `json:"name"`
	Encoding        []float32 `json:"encoding"`
	SourceImagePath string    `json:"source_image_path,omitempty"`
}

var loadFacesCmd = &cobra.Command{
	Use:   "load-faces <enrollment-file>",
	Short: "Enroll known face encodings from a JSON enrollment file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read enrollment file %s: %w", args[0], err)
		}

		var enrollments []faceEnrollment
		if err := json.Unmarshal(data, &enrollments); err != nil {
			return fmt.Errorf("failed to parse enrollment file %s: %w", args[0], err)
		}

		for _, entry := range enrollments {
			id, err := Store.EnrollKnownFace(entry.Name, entry.Encoding, entry.SourceImagePath)
			if err != nil {
				return err
			}
			fmt.Printf("Enrolled %s (ID: %d)\n", entry.Name, id)
		}
		fmt.Printf("Loaded %d face encoding(s)\n", len(enrollments))
		return nil
	},
}

var listFacesCmd = &cobra.Command{
	Use:   "list-faces",
	Short: "List enrolled known faces",
	RunE: func(cmd *cobra.Command, args []string) error {
		faces, err := Store.ListKnownFaces()
		if err != nil {
			return err
		}

		if len(faces) == 0 {
			fmt.Println("No known faces enrolled")
			return nil
		}

		fmt.Printf("Known faces (%d encodings):\n", len(faces))
		for _, face := range faces {
			fmt.Printf("   ID %3d: %s", face.ID, face.Name)
			if face.SourceImagePath != nil {
				fmt.Printf(" (source: %s)", *face.SourceImagePath)
			}
			fmt.Printf(" enrolled %s\n", time.Unix(face.CreatedAt, 0).Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadFacesCmd)
	rootCmd.AddCommand(listFacesCmd)
}
