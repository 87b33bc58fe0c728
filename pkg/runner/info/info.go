package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/store"
)

type lister interface {
	ListAll(ctx context.Context) ([]entry.Entry, error)
}

type Info struct {
	Config  *store.Config
	Backend *store.Backend
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("CALTRACK_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "CALTRACK_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "CALTRACK_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Backend == nil {
		return errors.New("failed to open the ledger backend")
	}

	cfgFile := n.Config.ConfigFile
	if cfgFile == "" {
		cfgFile = "none (defaults and environment)"
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Config file:", cfgFile)
	tbl.AddRow("Backend:", n.Backend.Name)
	switch n.Backend.Name {
	case store.BackendDiskv:
		tbl.AddRow("Path:", n.Config.BasePath())
	case store.BackendAppwrite:
		tbl.AddRow("Endpoint:", n.Config.Appwrite.Endpoint)
		tbl.AddRow("Collection:", fmt.Sprintf("%s/%s (project %s)", n.Config.Appwrite.Database, n.Config.Appwrite.Collection, n.Config.Appwrite.Project))
	case store.BackendPostgres:
		tbl.AddRow("Table:", n.Config.Postgres.Table)
	}
	tbl.AddRow("Goal:", fmt.Sprintf("%d kcal", n.Config.Goal))
	tbl.AddRow("Page size:", n.Config.PageSize)

	if l, ok := n.Backend.Ledger.(lister); ok {
		all, err := l.ListAll(ctx)
		if err != nil {
			return err
		}
		tbl.AddRow("Entries:", len(all))
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
