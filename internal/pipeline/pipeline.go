// Package pipeline wires one query through fetch, parse, projection,
// optional CIDR conversion, optional deduplication, rendering and the
// output sink.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rootsektor/ripe-api-query-tool/internal/ipcalc"
	"github.com/rootsektor/ripe-api-query-tool/internal/output"
	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

// Config is the immutable set of options for one run. The CLI builds
// it once; nothing after that point reads flag or option state.
type Config struct {
	Query       string
	Filter      []string // lowercased field names; empty keeps all fields
	Separator   string
	Mode        output.Mode
	ConvertCIDR bool
	Unique      bool
	OutputFile  string // empty writes to stdout
}

// Run executes the fixed pipeline for cfg. Fetch and parse failures
// abort before anything reaches the sink; conversion failures degrade
// to the unconverted value.
func Run(ctx context.Context, cfg Config, fetch ripedb.Fetcher, stdout io.Writer) error {
	raw, err := fetch.Fetch(ctx, cfg.Query)
	if err != nil {
		return err
	}

	set, err := ripedb.Parse(raw)
	if err != nil {
		return err
	}
	log.Debug().Int("records", len(set)).Msg("response parsed")

	projected := make([]ripedb.ProjectedRecord, 0, len(set))
	for _, rec := range set {
		p := ripedb.Project(rec, cfg.Filter)
		if cfg.ConvertCIDR {
			convertRanges(&p, cfg.Separator)
		}
		if p.Empty() {
			continue
		}
		projected = append(projected, p)
	}

	if cfg.Unique {
		before := len(projected)
		projected = ripedb.Dedup(projected)
		log.Debug().Int("dropped", before-len(projected)).Msg("duplicates removed")
	}

	rendered, err := output.Render(projected, cfg.Mode, output.Options{
		Separator: cfg.Separator,
		Filtered:  len(cfg.Filter) > 0,
	})
	if err != nil {
		return err
	}

	return writeSink(rendered, cfg.OutputFile, stdout)
}

// convertRanges rewrites every projected value that holds an
// inetnum-style range into its CIDR blocks, joined by sep. Values
// that fail to convert stay as they are.
func convertRanges(p *ripedb.ProjectedRecord, sep string) {
	if sep == "" {
		sep = ","
	}
	for i := range p.Values {
		for j, v := range p.Values[i] {
			if v == "" {
				continue
			}
			converted, err := ipcalc.ConvertValue(v, sep)
			if err != nil {
				log.Debug().Err(err).Str("field", p.Fields[i]).Msg("value left unconverted")
				continue
			}
			p.Values[i][j] = converted
		}
	}
}

func writeSink(data, path string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, data)
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	log.Info().Str("file", path).Msg("output written")
	return nil
}
