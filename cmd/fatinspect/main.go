// Command fatinspect offers read-only reporting over a fatdisk image:
// integrity verification and a CSV manifest, neither of which is part of
// the core command surface driven by fatctl.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hhartl/fatdisk"
)

func main() {
	app := &cli.App{
		Name:  "fatinspect",
		Usage: "inspect a fatdisk image",
		Commands: []*cli.Command{
			{
				Name:      "verify",
				Usage:     "check structural integrity of an image",
				ArgsUsage: "IMAGE",
				Action:    runVerify,
			},
			{
				Name:      "manifest",
				Usage:     "print a CSV manifest of every file in an image",
				ArgsUsage: "IMAGE",
				Action:    runManifest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openImage(c *cli.Context) (*fatdisk.Image, func() error, error) {
	if c.NArg() != 1 {
		return nil, nil, fmt.Errorf("expected exactly one image path argument")
	}
	img, closer, err := fatdisk.OpenFile(c.Args().Get(0))
	if err != nil {
		return nil, nil, err
	}
	return img, closer.Close, nil
}

func runVerify(c *cli.Context) error {
	img, closeFn, err := openImage(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := fatdisk.Verify(img); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return cli.Exit("", 1)
	}
	fmt.Println("ok")
	return nil
}

func runManifest(c *cli.Context) error {
	img, closeFn, err := openImage(c)
	if err != nil {
		return err
	}
	defer closeFn()

	return fatdisk.WriteManifestCSV(img, os.Stdout)
}
