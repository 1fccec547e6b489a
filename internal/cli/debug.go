package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show store path."`
	Dump    DebugDumpCmd    `cmd:"" help:"Dump the tracker state as JSON."`
	History DebugHistoryCmd `cmd:"" help:"Show previous values of a key."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpCmd struct {
	Raw bool `help:"Dump every raw key-value pair instead of the decoded tracker."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if cmd.Raw {
		if err := ctx.Store.Load(); err != nil {
			return fmt.Errorf("failed to load store: %w", err)
		}
		keys, err := ctx.Store.Keys()
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		sort.Strings(keys)
		values := make(map[string]string, len(keys))
		for _, k := range keys {
			v, _, err := ctx.Store.Get(k)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", k, err)
			}
			values[k] = v
		}
		return ctx.printJSON(values)
	}

	tr, err := ctx.LoadTracker()
	if err != nil {
		return err
	}
	data, err := tr.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize tracker: %w", err)
	}
	ctx.println(string(data))
	return nil
}

type DebugHistoryCmd struct {
	Key   string `arg:"" help:"Key to inspect, e.g. quit_date."`
	Limit int    `help:"Maximum number of revisions." default:"10"`
}

func (cmd *DebugHistoryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	revs, err := ctx.Store.History(cmd.Key, cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(revs) == 0 {
		ctx.printf("No history for %s.\n", cmd.Key)
		return nil
	}
	for _, r := range revs {
		ctx.printf("%s  %s\n", r.ReplacedAt.Local().Format(time.DateTime), r.Value)
	}
	return nil
}

func (c *Context) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(data))
	return nil
}
