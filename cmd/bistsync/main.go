// Command bistsync scrapes the BIST company list from KAP and prints it as
// JSON in the format of the embedded directory file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/kap"
	log "github.com/sirupsen/logrus"
)

func main() {
	url := flag.String("url", kap.DefaultURL, "KAP company list page")
	out := flag.String("out", "", "write to this file instead of stdout")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	companies, err := kap.NewClient(*url, nil).FetchCompanies(ctx)
	if err != nil {
		log.WithError(err).Fatal("scrape failed")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.WithError(err).Fatal("cannot create output file")
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(companies); err != nil {
		log.WithError(err).Error("write failed")
		return
	}

	log.WithField("companies", len(companies)).Info("BIST company list written")
}
