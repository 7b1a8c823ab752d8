package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core"
	"github.com/joseph-ayodele/cards-tracker/internal/core/capture"
	"github.com/joseph-ayodele/cards-tracker/internal/core/crop"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
	"github.com/joseph-ayodele/cards-tracker/internal/server"
)

const usage = `usage: cards <command> [flags]

commands:
  add     -front FILE|-front-camera DEV [-back FILE|-back-camera DEV]
          [-set field=value]... [-notes TEXT]
          [-front-rect x0,y0,x1,y1] [-front-rotate N] [-back-rect ...] [-back-rotate N]
  list    [-q SEARCH] [-limit N]
  delete  ID
  export  -out FILE [-q SEARCH]

every command accepts -config FILE
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "add":
		err = runAdd(ctx, args)
	case "list":
		err = runList(ctx, args)
	case "delete":
		err = runDelete(ctx, args)
	case "export":
		err = runExport(ctx, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cards %s: %v\n", os.Args[1], err)
		os.Exit(exitCode(err))
	}
}

// exitCode keeps argument problems at 2 like flag does.
func exitCode(err error) int {
	switch common.GRPCCode(err) {
	case codes.InvalidArgument, codes.NotFound:
		return 2
	}
	return 1
}

func openApp(ctx context.Context, configPath string) (*server.App, error) {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return server.NewApp(ctx, cfg, server.NewLogger(cfg))
}

func runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var (
		configPath  = fs.String("config", "", "optional TOML config file")
		front       = fs.String("front", "", "front side image (required)")
		back        = fs.String("back", "", "back side image")
		frontCamera = fs.String("front-camera", "", "capture the front from this video device instead of -front")
		backCamera  = fs.String("back-camera", "", "capture the back from this video device instead of -back")
		notes       = fs.String("notes", "", "notes to store with the card")
		frontRect   rectFlag
		backRect    rectFlag
		frontRotate = fs.Int("front-rotate", 0, "quarter turns clockwise for the front")
		backRotate  = fs.Int("back-rotate", 0, "quarter turns clockwise for the back")
		edits       = editsFlag{}
	)
	fs.Var(&frontRect, "front-rect", "crop rectangle x0,y0,x1,y1 for the front")
	fs.Var(&backRect, "back-rect", "crop rectangle x0,y0,x1,y1 for the back")
	fs.Var(edits, "set", "override a field, e.g. -set company=Acme (repeatable)")
	_ = fs.Parse(args)

	if *front == "" && *frontCamera == "" {
		return common.InvalidArgumentError("-front or -front-camera is required")
	}
	if *notes != "" {
		edits[entity.FieldNotes] = *notes
	}

	app, err := openApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	req := core.CardRequest{
		Files: ingest.CardFiles{Key: *front, Front: *front, Back: *back},
		Crop: map[constants.Side]crop.Options{
			constants.Front: {Rect: frontRect.Rectangle, QuarterTurns: *frontRotate},
			constants.Back:  {Rect: backRect.Rectangle, QuarterTurns: *backRotate},
		},
		Edits: edits,
	}
	if *frontCamera != "" || *backCamera != "" {
		cam, sides := cameraFor(*frontCamera, *backCamera)
		cam.Logger = app.Logger
		req.Camera, req.Capture = cam, sides
		if req.Files.Key == "" {
			req.Files.Key = "camera"
		}
	}

	card, err := app.Processor.Process(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(card)
}

// cameraFor maps the front device to the environment camera and a
// different back device to the user camera.
func cameraFor(frontDev, backDev string) (*capture.CommandCamera, map[constants.Side]constants.Facing) {
	cam := &capture.CommandCamera{Devices: map[constants.Facing]string{}}
	sides := map[constants.Side]constants.Facing{}
	if frontDev != "" {
		cam.Devices[constants.FacingEnvironment] = frontDev
		sides[constants.Front] = constants.FacingEnvironment
	}
	switch {
	case backDev == "":
	case backDev == frontDev:
		sides[constants.Back] = constants.FacingEnvironment
	default:
		cam.Devices[constants.FacingUser] = backDev
		sides[constants.Back] = constants.FacingUser
	}
	return cam, sides
}

func runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "optional TOML config file")
	query := fs.String("q", "", "search name, company or email")
	limit := fs.Int("limit", 0, "maximum cards to show (0 = all)")
	_ = fs.Parse(args)

	app, err := openApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	cards, err := app.Cards.List(ctx, *query, *limit)
	if err != nil {
		return err
	}
	return printJSON(cards)
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", "", "optional TOML config file")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return common.InvalidArgumentError("delete takes exactly one card id")
	}

	app, err := openApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Cards.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", fs.Arg(0))
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "optional TOML config file")
	out := fs.String("out", "cards.xlsx", "output XLSX file")
	query := fs.String("q", "", "only export cards matching this search")
	_ = fs.Parse(args)

	app, err := openApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	b, err := app.Export.CardsXLSX(ctx, *query)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
