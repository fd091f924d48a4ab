package workers

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/facette/natsort"

	"github.com/avisionlabs/avision/config"
	"github.com/avisionlabs/avision/media"
	"github.com/avisionlabs/avision/store"
)

// IngestJob is one image to process. Model, when set, overrides the sidecar's
// model identifier.
type IngestJob struct {
	Path  string
	Model string
}

// IngestResult reports the outcome of one ingestion
type IngestResult struct {
	Path    string
	PhotoID uint
	Objects int
	Faces   int
	Err     error
}

// IngestPool runs independent IngestPhoto calls concurrently. Each job is one
// photo and one store transaction; the pool itself holds no store state.
type IngestPool struct {
	Store    *store.Store
	Config   config.Config
	JobQueue chan IngestJob
	Results  chan IngestResult
	wg       sync.WaitGroup
}

// NewIngestPool starts numWorkers goroutines consuming from the job queue
func NewIngestPool(cfg config.Config, st *store.Store, queueSize, numWorkers int) *IngestPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	pool := &IngestPool{
		Store:    st,
		Config:   cfg,
		JobQueue: make(chan IngestJob, queueSize),
		Results:  make(chan IngestResult, queueSize),
	}
	pool.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pool.worker(i)
	}
	log.Printf("Started %d ingest worker(s) with queue size %d", numWorkers, queueSize)
	return pool
}

func (p *IngestPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.JobQueue {
		result := ProcessImage(p.Store, p.Config, job.Path, job.Model)
		if result.Err != nil {
			log.Printf("Worker %d: ERROR ingesting %s: %v", id, job.Path, result.Err)
		}
		p.Results <- result
	}
}

// Queue submits one image for ingestion
func (p *IngestPool) Queue(job IngestJob) {
	p.JobQueue <- job
}

// Close drains the pool: no further jobs are accepted, and Results is closed
// once every in-flight ingestion finishes
func (p *IngestPool) Close() {
	close(p.JobQueue)
	p.wg.Wait()
	close(p.Results)
}

// ProcessImage runs the full per-photo pipeline: file metadata, EXIF
// extraction, sidecar detections and one atomic store ingestion. The modelID
// argument overrides the sidecar's model identifier when non-empty.
func ProcessImage(st *store.Store, cfg config.Config, imagePath, modelID string) IngestResult {
	result := IngestResult{Path: imagePath}

	fileMeta, err := media.ReadFileMeta(imagePath)
	if err != nil {
		result.Err = err
		return result
	}

	exifData, err := media.ExtractExif(imagePath)
	if err != nil {
		result.Err = err
		return result
	}

	sidecar, err := media.LoadSidecar(imagePath)
	if err != nil {
		result.Err = err
		return result
	}

	ingest := media.PhotoIngest{
		File: fileMeta,
		Exif: exifData,
	}
	if sidecar != nil {
		ingest.Objects = media.FilterObjects(sidecar.Objects, cfg.ConfidenceThreshold)
		ingest.Faces = sidecar.Faces
		if modelID == "" {
			modelID = sidecar.Model
		}
	}
	if modelID != "" {
		ingest.ProcessingModel = &modelID
	}

	photoID, err := st.IngestPhoto(ingest)
	if err != nil {
		result.Err = err
		return result
	}

	result.PhotoID = photoID
	result.Objects = len(ingest.Objects)
	result.Faces = len(ingest.Faces)
	return result
}

// CollectImages walks a directory and returns the image paths matching the
// extension set, in natural sort order so runs are deterministic
func CollectImages(dir string, extensions []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if allowed[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	natsort.Sort(paths)
	return paths, nil
}
