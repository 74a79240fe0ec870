// Command flacscan walks one or more directories, parses the metadata of
// every FLAC file it finds and caches the results in a badger index. The
// index can optionally be dumped as an xz-compressed JSON stream.
package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cadenza-tools/flacrw"
	"github.com/cadenza-tools/flacrw/internal/config"
	"github.com/cadenza-tools/flacrw/pkg/export"
	"github.com/cadenza-tools/flacrw/pkg/libindex"
)

func main() {
	log := logrus.New()

	configPath := "flacscan.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	conf, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if conf.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if len(conf.Roots) == 0 {
		log.Fatal("no roots configured")
	}

	store, err := libindex.NewStore(libindex.Config{
		Path:          conf.IndexPath,
		MinimumFreeGB: conf.MinimumFreeGB,
		Logger:        log,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var scanned, failed int
	for _, root := range conf.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".flac") {
				return nil
			}

			container, err := flacrw.Open(path)
			if err != nil {
				failed++
				log.WithFields(logrus.Fields{
					"path":  path,
					"error": err,
				}).Warn("skipping unreadable file")
				return nil
			}

			if err := store.Put(libindex.NewRecord(path, container)); err != nil {
				return err
			}
			scanned++
			log.WithField("path", path).Debug("indexed")
			return nil
		})
		if err != nil {
			log.Fatalf("walk %s: %v", root, err)
		}
	}

	log.WithFields(logrus.Fields{
		"scanned": scanned,
		"failed":  failed,
	}).Info("scan finished")

	if conf.DumpPath == "" {
		return
	}

	var recs []libindex.Record
	err = store.Each(func(rec libindex.Record) error {
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create(conf.DumpPath)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := export.Write(out, recs); err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"path":    conf.DumpPath,
		"records": len(recs),
	}).Info("wrote index dump")
}
