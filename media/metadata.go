package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// ReadFileMeta collects the file-level metadata the store records for a photo:
// size from the filesystem, dimensions and container format from the image
// header when it can be decoded.
func ReadFileMeta(filePath string) (FileMeta, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return FileMeta{}, fmt.Errorf("media: failed to stat file %s: %w", filePath, err)
	}

	meta := FileMeta{Path: filePath, Size: info.Size()}

	file, err := os.Open(filePath)
	if err != nil {
		return FileMeta{}, fmt.Errorf("media: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	config, format, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
		meta.Format = &format
	} else {
		log.Printf("media: Warning - Could not decode config for dimensions of %s: %v", filePath, err)
	}

	return meta, nil
}

// helper to safely get and convert a rational tag (like Aperture, FocalLength)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil // Tag not found
	}
	// rational numbers are often stored as num/den
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// sometimes stored as Int instead
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// helper to safely get and convert an integer tag (like ISO)
func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// ISO might be a slice, get the first value
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// val string might have null chars at the end
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), `"`)
	if val == "" {
		return nil
	}
	return &val
}

// helper to get exposure time specifically, formatting it as a fraction
func getExposureTime(exifData *exif.Exif) *string {
	tag, err := exifData.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil // Cannot represent as fraction
	}

	if num == 1 && den > 1 { // common case: 1/XXX
		s := fmt.Sprintf("1/%d", den)
		return &s
	}

	val := float64(num) / float64(den)
	if val >= 1.0 {
		s := fmt.Sprintf("%.1fs", val) // e.g., 1.5s, 30.0s
		return &s
	}
	s := fmt.Sprintf("%.4fs", val)
	return &s
}

// ExtractExif extracts the EXIF attribute set using goexif. A file without
// EXIF data yields (nil, nil); that is not an error.
func ExtractExif(filePath string) (*ExifData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("media: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	exifData, err := exif.Decode(file)
	if err != nil {
		// not necessarily a fatal error, file might just lack EXIF data
		log.Printf("media: No EXIF data found or error decoding EXIF for %s: %v", filePath, err)
		return nil, nil
	}

	data := &ExifData{
		CameraMake:   getString(exifData, exif.Make),
		CameraModel:  getString(exifData, exif.Model),
		Software:     getString(exifData, exif.Software),
		ExposureTime: getExposureTime(exifData),
		Aperture:     getRational(exifData, exif.FNumber),
		ISO:          getInt(exifData, exif.ISOSpeedRatings),
		FocalLength:  getRational(exifData, exif.FocalLength),
		GPSAltitude:  getRational(exifData, exif.GPSAltitude),
	}

	lat, long, err := exifData.LatLong()
	if err == nil {
		data.GPSLatitude = &lat
		data.GPSLongitude = &long
	}

	dt, err := exifData.DateTime()
	if err == nil {
		ts := dt.Unix()
		data.TakenAt = &ts
	} else {
		log.Printf("media: Could not read DateTimeOriginal for %s: %v", filePath, err)
	}

	return data, nil
}
