package osint

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Exif holds the camera fields worth reporting. Empty fields are omitted.
type Exif struct {
	CameraMake       string   `json:"CameraMake,omitempty"`
	CameraModel      string   `json:"CameraModel,omitempty"`
	DateTimeOriginal string   `json:"DateTimeOriginal,omitempty"`
	ExposureTime     *float64 `json:"ExposureTime,omitempty"`
	FNumber          *float64 `json:"FNumber,omitempty"`
	ISO              *int     `json:"ISO,omitempty"`
	FocalLength      *float64 `json:"FocalLength,omitempty"`
	LensModel        string   `json:"LensModel,omitempty"`
	Software         string   `json:"Software,omitempty"`
}

const exifTimeLayout = "2006:01:02 15:04:05"

func readExif(path string) (Exif, *GPS, []string) {
	f, err := os.Open(path)
	if err != nil {
		return Exif{}, nil, []string{fmt.Sprintf("exif: %v", err)}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Exif{}, nil, []string{fmt.Sprintf("no EXIF metadata: %v", err)}
	}
	var warns []string
	if err != nil {
		warns = append(warns, fmt.Sprintf("partial EXIF metadata: %v", err))
	}

	var ex Exif
	ex.CameraMake = str(x, exif.Make)
	ex.CameraModel = str(x, exif.Model)
	ex.LensModel = str(x, exif.LensModel)
	ex.Software = str(x, exif.Software)
	ex.ExposureTime = rat(x, exif.ExposureTime, 0)
	ex.FNumber = rat(x, exif.FNumber, 0)
	ex.FocalLength = rat(x, exif.FocalLength, 0)
	if t, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if v, err := t.Int(0); err == nil {
			ex.ISO = &v
		}
	}
	if raw := str(x, exif.DateTimeOriginal); raw != "" {
		// No offset is stored alongside, so keep the naive local time.
		if t, err := time.Parse(exifTimeLayout, raw); err == nil {
			ex.DateTimeOriginal = t.Format("2006-01-02T15:04:05")
		} else {
			ex.DateTimeOriginal = raw
			warns = append(warns, fmt.Sprintf("unparsed DateTimeOriginal %q", raw))
		}
	}

	return ex, gpsOf(x), warns
}

func gpsOf(x *exif.Exif) *GPS {
	lat, lon, err := x.LatLong()
	if err != nil || math.IsNaN(lat) || math.IsNaN(lon) {
		return nil
	}
	g := &GPS{Lat: round7(lat), Lon: round7(lon)}
	if alt := rat(x, exif.GPSAltitude, 0); alt != nil {
		if t, err := x.Get(exif.GPSAltitudeRef); err == nil {
			if ref, err := t.Int(0); err == nil && ref == 1 {
				*alt = -*alt
			}
		}
		g.Alt = alt
	}
	return g
}

func round7(v float64) float64 { return math.Round(v*1e7) / 1e7 }

func str(x *exif.Exif, name exif.FieldName) string {
	t, err := x.Get(name)
	if err != nil || t.Format() != tiff.StringVal {
		return ""
	}
	s, err := t.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

func rat(x *exif.Exif, name exif.FieldName, i int) *float64 {
	t, err := x.Get(name)
	if err != nil {
		return nil
	}
	num, den, err := t.Rat2(i)
	if err != nil || den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}
