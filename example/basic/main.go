package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/grounder"
	"github.com/siherrmann/grounder/model"
)

func main() {
	query := "What is the melting point of tungsten?"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}

	// Defaults work out of the box, GROUNDER_* variables override them
	config, err := model.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	g := grounder.NewGrounder(*config)

	fmt.Printf("Querying: %s\n\n", query)
	content, err := g.GetRelevantContent(context.Background(), query)
	if err != nil {
		log.Fatalf("Failed to retrieve content: %v", err)
	}

	if content == "" {
		fmt.Println("No sufficiently relevant content found.")
		return
	}
	fmt.Println(content)
}
