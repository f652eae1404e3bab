package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ziptmpl/internal/output"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/engine"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/store"
)

// shortDigestLen is how many digest characters list prints in human mode.
const shortDigestLen = 12

// newStoreCmd creates the store command group.
func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and prune a template store",
		Long: `Inspect and prune a SQLite template store.

The store path comes from --store, or from store.path in --config.
Digests may be abbreviated to any unique prefix.`,
	}

	cmd.PersistentFlags().String("store", "", "SQLite template store path")

	cmd.AddCommand(newStoreListCmd())
	cmd.AddCommand(newStoreShowCmd())
	cmd.AddCommand(newStoreDeleteCmd())

	return cmd
}

func newStoreListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates, oldest first",
		Args:  cobra.NoArgs,
		RunE:  runStoreList,
	}
}

func newStoreShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <digest>",
		Short: "Show the statics and placeholders of a stored template",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreShow,
	}
}

func newStoreDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <digest>",
		Short: "Delete a stored template",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreDelete,
	}
}

// openStore opens the store named by --store or store.path in --config.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	path, _ := flagValue(cmd, "store")
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.String(engine.KeyStorePath, "")
	}
	if path == "" {
		return nil, output.NewUserError("no store given: use --store or set store.path in --config")
	}

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("open store: "+err.Error(), err)
	}
	return st, nil
}

// resolveDigest expands a digest prefix to the single stored digest it
// identifies.
func resolveDigest(st store.Store, prefix string) (string, error) {
	infos, err := st.List()
	if err != nil {
		return "", output.NewSystemErrorWithCause("list store: "+err.Error(), err)
	}

	var matches []string
	for _, info := range infos {
		if info.Digest == prefix {
			return prefix, nil
		}
		if strings.HasPrefix(info.Digest, prefix) {
			matches = append(matches, info.Digest)
		}
	}

	switch len(matches) {
	case 0:
		return "", output.NewUserErrorWithCause("no stored template matches "+prefix, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", output.NewUserError(fmt.Sprintf("digest prefix %s is ambiguous (%d matches)", prefix, len(matches)))
	}
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return fail(printer, err)
	}
	defer st.Close()

	infos, err := st.List()
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("list store: "+err.Error(), err))
	}

	if printer.IsJSON() {
		entries := make([]map[string]any, 0, len(infos))
		for _, info := range infos {
			entries = append(entries, map[string]any{
				"id":           info.ID,
				"digest":       info.Digest,
				"placeholders": info.Placeholders,
				"size":         info.Size,
				"saved_at":     info.SavedAt.UTC().Format(time.RFC3339Nano),
			})
		}
		return printer.WriteJSON(entries)
	}

	if len(infos) == 0 {
		printer.Println(printer.Dim("no stored templates"))
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Digest[:min(shortDigestLen, len(info.Digest))],
			strconv.Itoa(info.Placeholders),
			strconv.FormatInt(info.Size, 10),
			info.SavedAt.Local().Format(time.DateTime),
		})
	}
	printer.Table([]string{"DIGEST", "PLACEHOLDERS", "BYTES", "SAVED"}, rows)
	return nil
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return fail(printer, err)
	}
	defer st.Close()

	digest, err := resolveDigest(st, args[0])
	if err != nil {
		return fail(printer, err)
	}
	rec, err := st.Record(digest)
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("read record: "+err.Error(), err))
	}

	if printer.IsJSON() {
		return printer.WriteJSON(rec)
	}

	t, err := rec.Template()
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause(err.Error(), err))
	}
	printer.KeyValue("id", rec.ID)
	printer.KeyValue("saved", rec.SavedAt.Local().Format(time.DateTime))
	outputParseHuman(printer, rec.Digest, t)
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return fail(printer, err)
	}
	defer st.Close()

	digest, err := resolveDigest(st, args[0])
	if err != nil {
		return fail(printer, err)
	}
	if err := st.Delete(digest); err != nil {
		return fail(printer, output.NewSystemErrorWithCause("delete: "+err.Error(), err))
	}

	return printer.Success(map[string]any{
		"message": "deleted " + digest[:min(shortDigestLen, len(digest))],
		"digest":  digest,
	})
}
