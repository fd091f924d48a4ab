package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchObjects  []string
	searchMinCount int
	searchNames    []string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for photos containing every requested object class",
	RunE: func(cmd *cobra.Command, args []string) error {
		photoIDs, err := Store.SearchByObjects(searchObjects, searchMinCount)
		if err != nil {
			return err
		}

		if len(photoIDs) == 0 {
			fmt.Printf("No photos found containing all of %v (min count: %d)\n", searchObjects, searchMinCount)
			return nil
		}

		fmt.Printf("Found %d photo(s) containing all of %v:\n", len(photoIDs), searchObjects)
		for _, id := range photoIDs {
			printPhotoLine(id)
		}
		return nil
	},
}

var searchFacesCmd = &cobra.Command{
	Use:   "search-faces",
	Short: "Search for photos containing any of the named people",
	RunE: func(cmd *cobra.Command, args []string) error {
		photoIDs, err := Store.SearchByFaces(searchNames)
		if err != nil {
			return err
		}

		if len(photoIDs) == 0 {
			fmt.Printf("No photos found containing any of %v\n", searchNames)
			return nil
		}

		fmt.Printf("Found %d photo(s) containing any of %v:\n", len(photoIDs), searchNames)
		for _, id := range photoIDs {
			printPhotoLine(id)
		}
		return nil
	},
}

func printPhotoLine(photoID uint) {
	detail, err := Store.GetPhotoInfo(photoID)
	if err != nil {
		fmt.Printf("   ID %d\n", photoID)
		return
	}
	fmt.Printf("   ID %d: %s\n", photoID, detail.Photo.FilePath)
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchObjects, "objects", nil, "Object classes to search for (all must be present)")
	searchCmd.Flags().IntVar(&searchMinCount, "min-count", 1, "Minimum count per object class")
	_ = searchCmd.MarkFlagRequired("objects")

	searchFacesCmd.Flags().StringSliceVar(&searchNames, "names", nil, "Person names to search for (any may be present)")
	_ = searchFacesCmd.MarkFlagRequired("names")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(searchFacesCmd)
}
