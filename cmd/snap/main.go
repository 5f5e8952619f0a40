// Command snap is a terminal client for the RecipeSnap API. It walks the
// same wizard the browser UI does: upload a photo, wait for the analysis,
// review the detected ingredients, then generate a recipe.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Dev2197/recipe-snap/internal/apiclient"
	"github.com/Dev2197/recipe-snap/internal/config"
	"github.com/Dev2197/recipe-snap/internal/session"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", config.GetEnv("RECIPESNAP_URL", "http://localhost:5000"), "API base URL")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: snap [-server URL] <image-path>")
		os.Exit(2)
	}
	imagePath := flag.Arg(0)

	client := apiclient.New(*serverURL)
	sess := session.New(client)
	ctx := context.Background()

	if err := submit(ctx, sess, imagePath); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Analyzing your ingredients...")
	sess.Wait()

	snap := sess.Snapshot()
	if snap.Err != "" {
		log.Fatalf("analysis failed: %s", snap.Err)
	}

	fmt.Printf("\nImage description: %s\n", snap.Analysis.Caption)
	fmt.Printf("Detected ingredients (%d):\n", len(snap.Analysis.Ingredients))
	for _, ing := range snap.Analysis.Ingredients {
		fmt.Printf("  - %s\n", ing)
	}

	if len(snap.Analysis.Ingredients) == 0 {
		fmt.Println("\nNo ingredients detected. Try a clearer photo.")
		return
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := "\nGenerate a recipe? [y/N] "
	for {
		fmt.Print(prompt)
		line, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			return
		}

		if err := sess.GenerateRecipe(ctx); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Crafting your recipe...")
		sess.Wait()

		snap = sess.Snapshot()
		if snap.Err != "" {
			fmt.Printf("recipe generation failed: %s\n", snap.Err)
		} else {
			fmt.Println("\n──────── Your Recipe ────────")
			fmt.Println(snap.Recipe.Recipe)
			fmt.Println("─────────────────────────────")
		}

		// Ingredients are retained, so regeneration and retry-after-failure
		// both go through the same trigger.
		prompt = "\nGenerate another recipe with the same ingredients? [y/N] "
	}
}

func submit(ctx context.Context, sess *session.Session, imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	declaredType := mime.TypeByExtension(filepath.Ext(imagePath))
	return sess.SubmitImage(ctx, f, declaredType, filepath.Base(imagePath), info.Size())
}
