// A small command-line search client: resolve the site's mirror, run a
// quick search and print the matches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/core"
	"github.com/fsclient/fsclient-go/internal/logging"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

func main() {
	logging.Setup()

	site := flag.String("site", "exfs", "site id to search on")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	query := flag.Arg(0)
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: fsclient-cli [-site id] <query>")
		os.Exit(2)
	}

	_, err := core.New()
	if err != nil {
		logrus.Fatalf("Failed to set up application: %v", err)
	}

	set, ok := providers.Get(models.NewSite(*site))
	if !ok {
		logrus.Fatalf("Unknown site %q", *site)
	}
	if set.Search == nil {
		logrus.Fatalf("Site %q does not support search", *site)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := set.Search.ShortResult(ctx, query, models.SectionAny)
	if err != nil {
		logrus.Fatalf("Search failed: %v", err)
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, item := range results {
		line := fmt.Sprintf("%-10s %s", item.ID, item.Title)
		if item.Details.Year != 0 {
			line += fmt.Sprintf(" (%d)", item.Details.Year)
		}
		fmt.Println(line)
	}
}
