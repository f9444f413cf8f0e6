// Package sceneio reads the viewer's text inputs: the model list and the
// scene description records.
package sceneio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Record kinds recognised in a scene description.
const (
	KindLight  = "light"
	KindCamera = "camera"
)

// Field counts after the record keyword.
const (
	lightFields  = 9 // position(3) ambient(3) linear constant quadratic
	cameraFields = 9 // position(3) lookAt(3) up(3)
)

// Scene description errors.
var (
	ErrMissingCamera  = errors.New("no camera record")
	ErrMissingLights  = errors.New("no light records")
	ErrUnknownRecord  = errors.New("unknown record kind")
	ErrFieldCount     = errors.New("wrong number of fields")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrEmptyModelList = errors.New("model list is empty")
)

// LightRecord is one parsed "light" line.
type LightRecord struct {
	Position  math.Vec3
	Ambient   math.Vec3
	Linear    float32
	Constant  float32
	Quadratic float32
	Line      int
}

// CameraRecord is one parsed "camera" line.
type CameraRecord struct {
	Position math.Vec3
	LookAt   math.Vec3
	Up       math.Vec3
	Line     int
}

// Description is a fully parsed scene.
type Description struct {
	Lights []LightRecord
	Camera *CameraRecord
}

// LineError reports a malformed record.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ConfigError wraps every problem found in a scene description. The scene
// cannot be built from partial data, so any ConfigError is fatal.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("scene description: %v", e.Err)
	}
	return fmt.Sprintf("scene description %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Errors returns the individual problems collected while parsing.
func (e *ConfigError) Errors() []error {
	return multierr.Errors(e.Err)
}

// ParseScene reads scene records, one per line:
//
//	light  px py pz  ar ag ab  linear constant quadratic
//	camera px py pz  lx ly lz  ux uy uz
//
// Blank lines and lines starting with '#' are skipped. All malformed lines
// are reported together. A scene needs a camera and at least one light; if
// several camera records appear the last one is used.
func ParseScene(r io.Reader) (*Description, error) {
	desc := &Description{}
	var errs error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case KindLight:
			light, err := parseLight(fields[1:])
			if err != nil {
				errs = multierr.Append(errs, &LineError{Line: lineNo, Err: err})
				continue
			}
			light.Line = lineNo
			desc.Lights = append(desc.Lights, light)

		case KindCamera:
			cam, err := parseCamera(fields[1:])
			if err != nil {
				errs = multierr.Append(errs, &LineError{Line: lineNo, Err: err})
				continue
			}
			cam.Line = lineNo
			if desc.Camera != nil {
				logger.Debug("camera record overrides earlier one",
					zap.Int("line", lineNo),
					zap.Int("previous", desc.Camera.Line),
				)
			}
			desc.Camera = &cam

		default:
			errs = multierr.Append(errs, &LineError{
				Line: lineNo,
				Err:  fmt.Errorf("%w %q", ErrUnknownRecord, fields[0]),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("reading: %w", err))
	}

	if desc.Camera == nil {
		errs = multierr.Append(errs, ErrMissingCamera)
	}
	if len(desc.Lights) == 0 {
		errs = multierr.Append(errs, ErrMissingLights)
	}
	if errs != nil {
		return nil, &ConfigError{Err: errs}
	}
	return desc, nil
}

// LoadScene parses the scene description at path.
func LoadScene(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	defer f.Close()

	desc, err := ParseScene(f)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = path
		}
		return nil, err
	}

	logger.Info("scene description loaded",
		zap.String("path", path),
		zap.Int("lights", len(desc.Lights)),
	)
	return desc, nil
}

func parseLight(fields []string) (LightRecord, error) {
	v, err := parseFloats(fields, lightFields)
	if err != nil {
		return LightRecord{}, fmt.Errorf("light: %w", err)
	}
	return LightRecord{
		Position:  math.V3(v[0], v[1], v[2]),
		Ambient:   math.V3(v[3], v[4], v[5]),
		Linear:    v[6],
		Constant:  v[7],
		Quadratic: v[8],
	}, nil
}

func parseCamera(fields []string) (CameraRecord, error) {
	v, err := parseFloats(fields, cameraFields)
	if err != nil {
		return CameraRecord{}, fmt.Errorf("camera: %w", err)
	}
	return CameraRecord{
		Position: math.V3(v[0], v[1], v[2]),
		LookAt:   math.V3(v[3], v[4], v[5]),
		Up:       math.V3(v[6], v[7], v[8]),
	}, nil
}

func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), want)
	}
	out := make([]float32, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("%w %q in field %d", ErrInvalidNumber, f, i+1)
		}
		x := float32(v)
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			return nil, fmt.Errorf("%w %q in field %d: not finite", ErrInvalidNumber, f, i+1)
		}
		out[i] = x
	}
	return out, nil
}
