package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/apetrei/carve"
	"github.com/apetrei/carve/config"
	"github.com/apetrei/carve/utils"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐
│  ├─┤├┬┘└┐┌┘├┤
└─┘┴ ┴┴└─ └┘ └─┘

Content aware image resize tool.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// result holds the relevant information about the resize process of one image.
type result struct {
	path string
	err  error
}

var (
	// imgurl holds the temporary file of a downloaded source image.
	imgurl *os.File
	// spinner used to instantiate and call the progress indicator.
	spinner *utils.Spinner
	// seamsOut is the destination of the seam visualization, when requested.
	seamsOut string
)

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	newWidth    = flag.Int("width", 0, "New width")
	newHeight   = flag.Int("height", 0, "New height")
	percentage  = flag.Bool("perc", false, "Width and height are percentages of the original size")
	scale       = flag.Bool("scale", false, "Proportional scaling before carving")
	strategy    = flag.String("strategy", "", "Seam finding strategy (dp|greedy)")
	seamsPath   = flag.String("seams", "", "Destination of the removed seams visualization")
	seamColor   = flag.String("color", "", "Seam visualization color (hex)")
	faceDetect  = flag.Bool("face", false, "Use face detection")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	cascade     = flag.String("cc", "", "Cascade classifier")
	confPath    = flag.String("conf", "carve.yml", "Configuration file")
	workers     = flag.Int("workers", runtime.NumCPU(), "Number of files to process concurrently")
	debug       = flag.Bool("debug", false, "Debug logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	applyConfig(cfg)

	logger := newLogger(*debug)

	proc := &carve.Processor{
		NewWidth:    *newWidth,
		NewHeight:   *newHeight,
		Percentage:  *percentage,
		Scale:       *scale,
		Strategy:    *strategy,
		SeamColor:   *seamColor,
		Visualize:   *seamsPath != "",
		FaceDetect:  *faceDetect,
		FaceAngle:   *faceAngle,
		CascadePath: *cascade,
		Logger:      logger,
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CARVE", utils.StatusMessage),
		utils.DecorateText("is resizing the image...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	if *newWidth == 0 && *newHeight == 0 {
		flag.Usage()
		log.Fatal(fmt.Sprintf("%s%s",
			utils.DecorateText("\nPlease provide a width, height or percentage for image rescaling!", utils.ErrorMessage),
			utils.DefaultColor,
		))
	}

	if *faceDetect && len(*cascade) == 0 {
		log.Fatal(utils.DecorateText("Please specify a face classifier in case you are using the -face flag!\n", utils.ErrorMessage))
	}

	// Supported files
	validExtensions := []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}

	var fs os.FileInfo

	// Check if the source path is a local image, a directory or an URL.
	if utils.IsValidUrl(*source) {
		src, err := utils.DownloadImage(*source)
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to download the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		defer src.Close()
		defer os.Remove(src.Name())

		imgurl = src
		fs, err = src.Stat()
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	} else {
		// Check if the source is a pipe name or a regular file.
		if *source == pipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(*source)
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		// The visualization path is a single file, which cannot serve a
		// whole directory of sources.
		if *seamsPath != "" {
			logger.Warn().Msg("the -seams option is ignored in directory mode")
		}

		// Read the destination directory, creating it first if necessary.
		if _, err := os.Stat(*destination); err != nil {
			if err := os.Mkdir(*destination, 0755); err != nil {
				log.Fatalf(
					utils.DecorateText("Unable to create the destination directory: %v\n", utils.ErrorMessage),
					utils.DecorateText(err.Error(), utils.DefaultMessage),
				)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		if *workers <= 0 || *workers > maxWorkers {
			*workers = runtime.NumCPU()
		}

		// Process the image files from the specified directory concurrently.
		var wg sync.WaitGroup
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, *source, validExtensions)

		wg.Add(*workers)
		for i := 0; i < *workers; i++ {
			go func() {
				defer wg.Done()
				consumer(done, paths, *destination, proc, ch)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values.
		for res := range ch {
			printStatus(res.path, res.err)
		}

		if err := <-errc; err != nil {
			fmt.Fprint(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // regular files or pipe names
		ext := filepath.Ext(*destination)
		if !utils.Contains(validExtensions, ext) && *destination != pipeName {
			log.Fatal(utils.DecorateText(fmt.Sprintf("%v file type not supported", ext), utils.ErrorMessage))
		}

		seamsOut = *seamsPath
		err := processor(*source, *destination, proc)
		printStatus(*destination, err)
		if err != nil {
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// applyConfig fills every flag the user left untouched with the value
// from the configuration file.
func applyConfig(cfg *config.Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if !set["strategy"] {
		*strategy = cfg.Carving.Strategy
	}
	if !set["color"] {
		*seamColor = cfg.Carving.SeamColor
	}
	if !set["scale"] {
		*scale = cfg.Carving.Scale
	}
	if !set["face"] {
		*faceDetect = cfg.Face.Detect
	}
	if !set["cc"] {
		*cascade = cfg.Face.CascadeFile
	}
	if !set["angle"] {
		*faceAngle = cfg.Face.Angle
	}
	if !set["workers"] {
		*workers = cfg.Runtime.Workers
	}
	if !set["debug"] {
		*debug = cfg.Runtime.Debug
	}
}

// walkDir starts a goroutine to walk the specified directory tree in a
// recursive manner and send the path of each regular file on the string
// channel. It sends the result of the walk on the error channel. It
// terminates in case the done channel is closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			if utils.Contains(srcExts, filepath.Ext(info.Name())) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// consumer reads the path names from the paths channel, runs the resize
// processor against each source image and sends the results on a new
// channel.
func consumer(
	done <-chan interface{},
	paths <-chan string,
	dest string,
	proc *carve.Processor,
	res chan<- result,
) {
	for src := range paths {
		dest := filepath.Join(dest, filepath.Base(src))
		err := processor(src, dest, proc)

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// processor calls the resizer method over the source image and returns
// the error in case it exists, otherwise nil. Each call works on its own
// copy of the processor options, so concurrent workers do not share any
// mutable state.
func processor(in, out string, proc *carve.Processor) error {
	p := *proc

	src, dst, err := pathToFile(in, out)
	if err != nil {
		return err
	}
	defer src.Close()
	defer dst.Close()

	// Start the progress indicator.
	spinner.Start()
	err = p.Process(src, dst)

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ CARVE", utils.StatusMessage),
		utils.DecorateText("is resizing the image... ✔", utils.DefaultMessage))

	// Stop the progress indicator.
	spinner.Stop()

	if err == nil && seamsOut != "" {
		err = writeSeams(&p, seamsOut)
	}
	return err
}

// writeSeams encodes the visualization canvas of the finished resize
// into the given file.
func writeSeams(p *carve.Processor, path string) error {
	canvas := p.Visualization()
	if canvas == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the seams file: %v", err)
	}
	defer f.Close()
	return carve.EncodeImage(f, canvas)
}

// pathToFile converts the source and destination paths to a readable and
// a writable file.
func pathToFile(in, out string) (io.ReadCloser, io.WriteCloser, error) {
	var (
		src io.ReadCloser
		dst io.WriteCloser
		err error
	)
	// Check if the source path is a local image or an URL.
	if utils.IsValidUrl(in) {
		src = imgurl
	} else {
		// Check if the source is a pipe name or a regular file.
		if in == pipeName {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return nil, nil, errors.New("`-` should be used with a pipe for stdin")
			}
			src = os.Stdin
		} else {
			src, err = os.Open(in)
			if err != nil {
				return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
			}
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create the destination file: %v", err)
		}
	}
	return src, dst, nil
}

// printStatus displays the relevant information about the finished process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError resizing the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe resized image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}
