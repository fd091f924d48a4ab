package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/avisionlabs/avision/workers"
)

var (
	processModel     string
	processWorkers   int
	processExts      []string
	processForce     bool
	defaultImageExts = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}
)

var processImageCmd = &cobra.Command{
	Use:   "process-image <image-path>",
	Short: "Ingest a single image's metadata and detection results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath := args[0]
		if _, err := os.Stat(imagePath); err != nil {
			return fmt.Errorf("image file not found: %s", imagePath)
		}

		result := workers.ProcessImage(Store, Cfg, imagePath, processModel)
		if result.Err != nil {
			return result.Err
		}

		fmt.Printf("Processed: %s\n", imagePath)
		fmt.Printf("   Photo ID: %d\n", result.PhotoID)
		fmt.Printf("   Objects detected: %d\n", result.Objects)
		fmt.Printf("   Faces detected: %d\n", result.Faces)
		return nil
	},
}

var processDirCmd = &cobra.Command{
	Use:   "process-dir <directory-path>",
	Short: "Ingest all images in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("directory not found: %s", dir)
		}

		paths, err := workers.CollectImages(dir, processExts)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", dir, err)
		}
		if len(paths) == 0 {
			fmt.Println("No images found")
			return nil
		}

		// skip already-ingested photos unless forced; re-ingestion is a
		// full replace either way
		if !processForce {
			pending := paths[:0]
			for _, p := range paths {
				_, err := Store.GetPhotoByPath(p)
				if errors.Is(err, gorm.ErrRecordNotFound) {
					pending = append(pending, p)
				} else if err != nil {
					return err
				}
			}
			paths = pending
		}
		if len(paths) == 0 {
			fmt.Println("All images already processed (use --force-reprocess to re-ingest)")
			return nil
		}

		numWorkers := processWorkers
		if !cmd.Flags().Changed("workers") && Cfg.IngestWorkers > 0 {
			numWorkers = Cfg.IngestWorkers
		}

		runID := uuid.NewString()
		fmt.Fprintf(os.Stderr, "Ingest run %s: %d image(s), %d worker(s)\n", runID[:8], len(paths), numWorkers)

		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Ingesting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		pool := workers.NewIngestPool(Cfg, Store, len(paths), numWorkers)
		go func() {
			for _, p := range paths {
				pool.Queue(workers.IngestJob{Path: p, Model: processModel})
			}
			pool.Close()
		}()

		successful, failed, totalObjects := 0, 0, 0
		for result := range pool.Results {
			_ = bar.Add(1)
			if result.Err != nil {
				failed++
			} else {
				successful++
				totalObjects += result.Objects
			}
		}
		_ = bar.Finish()

		fmt.Printf("\nProcessing summary:\n")
		fmt.Printf("   Total images: %d\n", len(paths))
		fmt.Printf("   Successful: %d\n", successful)
		fmt.Printf("   Failed: %d\n", failed)
		fmt.Printf("   Total objects detected: %d\n", totalObjects)
		return nil
	},
}

func init() {
	processImageCmd.Flags().StringVar(&processModel, "model", "", "Detector model identifier recorded on the photo")

	processDirCmd.Flags().StringVar(&processModel, "model", "", "Detector model identifier recorded on the photos")
	processDirCmd.Flags().IntVar(&processWorkers, "workers", 4, "Number of concurrent ingest workers")
	processDirCmd.Flags().StringSliceVar(&processExts, "extensions", defaultImageExts, "File extensions to process")
	processDirCmd.Flags().BoolVar(&processForce, "force-reprocess", false, "Re-ingest images already present in the store")

	rootCmd.AddCommand(processImageCmd)
	rootCmd.AddCommand(processDirCmd)
}
