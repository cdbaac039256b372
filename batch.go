package rotaug

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options controls a batch run
type Options struct {
	InputDir    string
	OutputDir   string // Created if it does not exist
	LogPath     string
	ImageExt    string // eg "jpg". A leading dot is ignored.
	AngleRange  AngleRange
	Background  Color
	JPEGQuality int
	MaxSize     int // If non-zero, shrink images so that neither side exceeds this, before rotating
}

// Create Options with defaults
func NewOptions(inputDir, outputDir, logPath string) Options {
	return Options{
		InputDir:    inputDir,
		OutputDir:   outputDir,
		LogPath:     logPath,
		ImageExt:    "jpg",
		AngleRange:  DefaultAngleRange,
		Background:  DefaultBackground,
		JPEGQuality: 95,
	}
}

// Validate checks the options that would otherwise fail inside the rotator
func (o Options) Validate() error {
	if err := o.AngleRange.Validate(); err != nil {
		return err
	}
	// Decoded images are always RGB
	if len(o.Background) != 3 {
		return fmt.Errorf("%w: background %v must have 3 channels", ErrInvalidOptions, o.Background)
	}
	if o.ImageExt == "" {
		return fmt.Errorf("%w: image extension is empty", ErrInvalidOptions)
	}
	return nil
}

// Summary counts the files seen by a batch run.
// Processed is the number of images written; Skipped failed to decode.
type Summary struct {
	Attempted int
	Processed int
	Skipped   int
}

// Batch rotates every matching image in a directory, one at a time
type Batch struct {
	opts Options
	rng  *rand.Rand
	log  zerolog.Logger
}

func NewBatch(opts Options, rng *rand.Rand, log zerolog.Logger) *Batch {
	opts.ImageExt = strings.TrimPrefix(opts.ImageExt, ".")
	return &Batch{
		opts: opts,
		rng:  rng,
		log:  log.With().Str("run", uuid.NewString()).Logger(),
	}
}

// Run processes the input directory.
// Files that cannot be decoded are logged and skipped. Any other error aborts the batch,
// but the angle log is always flushed and closed.
func (b *Batch) Run() (summary Summary, err error) {
	if err := b.opts.Validate(); err != nil {
		return summary, err
	}
	if err := os.MkdirAll(b.opts.OutputDir, 0755); err != nil {
		return summary, fmt.Errorf("create output dir: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(b.opts.InputDir, "*."+b.opts.ImageExt))
	if err != nil {
		return summary, err
	}

	angleLog, err := OpenAngleLog(b.opts.LogPath)
	if err != nil {
		return summary, fmt.Errorf("open angle log: %w", err)
	}
	defer func() {
		if closeErr := angleLog.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close angle log: %w", closeErr)
		}
	}()

	b.log.Info().Str("input", b.opts.InputDir).Str("output", b.opts.OutputDir).Int("files", len(paths)).Stringer("angles", b.opts.AngleRange).Msg("Starting batch")

	for _, path := range paths {
		summary.Attempted++
		ok, err := b.processFile(path, angleLog)
		if err != nil {
			return summary, err
		}
		if ok {
			summary.Processed++
		} else {
			summary.Skipped++
		}
	}

	b.log.Info().Int("processed", summary.Processed).Int("skipped", summary.Skipped).Msg("Batch complete")
	return summary, nil
}

// Returns false if the file was skipped
func (b *Batch) processFile(path string, angleLog *AngleLog) (bool, error) {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	angle := b.opts.AngleRange.Pick(b.rng)

	img, err := ReadImage(path)
	if err != nil {
		b.log.Warn().Err(err).Str("path", path).Msg("Unable to read image, skipping")
		return false, nil
	}
	img = Shrink(img, b.opts.MaxSize)

	rotated := RotateWithBackground(img, angle, b.opts.Background)

	savePath := filepath.Join(b.opts.OutputDir, stem+"."+b.opts.ImageExt)
	if err := WriteImage(savePath, rotated, b.opts.JPEGQuality); err != nil {
		return false, fmt.Errorf("write %v: %w", savePath, err)
	}
	if err := angleLog.Append(stem, angle); err != nil {
		return false, fmt.Errorf("append angle log: %w", err)
	}
	b.log.Debug().Str("file", stem).Int("angle", angle).Int("width", rotated.Width).Int("height", rotated.Height).Msg("Rotated")
	return true, nil
}
