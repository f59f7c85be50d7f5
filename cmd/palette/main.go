package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"cartoonify/internal/cartoonify"
	"cartoonify/internal/imageproc"
)

func main() {
	// Get arguments
	if len(os.Args) < 2 {
		fmt.Println("Usage: palette <image_path> [k] [seed]")
		os.Exit(1)
	}

	imagePath := os.Args[1]
	cfg := cartoonify.DefaultConfig()

	if len(os.Args) > 2 {
		k, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing k: %v\n", err)
			os.Exit(1)
		}
		cfg.K = k
	}
	if len(os.Args) > 3 {
		seed, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing seed: %v\n", err)
			os.Exit(1)
		}
		cfg.Seed = seed
	}

	img, err := imageproc.LoadImage(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	res, err := cartoonify.Run(imageproc.NewSurface(img, imageproc.InterpolationLinear), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error quantizing image: %v\n", err)
		os.Exit(1)
	}

	// Output as JSON
	jsonResult, err := json.Marshal(imageproc.NewReport(imagePath, res))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(jsonResult))
}
