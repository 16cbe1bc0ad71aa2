package main

import (
	"encoding/json"
	"os"

	"completions-tracker/internal/database"
	"completions-tracker/internal/spreadsheet"
	"completions-tracker/internal/tracking"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	testPackID  uint
	subsystemID uint
)

var importCmd = &cobra.Command{
	Use:     "import <entity> <file>",
	Short:   "Import tags, test-packs or itrs from a .xlsx or .csv file",
	Example: "trackerctl import tags tags.xlsx --test-pack 12",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, path := args[0], args[1]
		if _, ok := spreadsheet.Columns(entity); !ok {
			return errors.Errorf("unknown entity %q", entity)
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := spreadsheet.Parse(path, f)
		if err != nil {
			return err
		}

		if _, err := bootstrap(); err != nil {
			return err
		}
		svc := tracking.New(database.DB)
		ctx := cmd.Context()

		var res *tracking.ImportResult
		switch entity {
		case spreadsheet.EntityTags:
			if testPackID == 0 {
				return errors.New("--test-pack is required for tags")
			}
			res, err = svc.ImportTags(ctx, 0, testPackID, rows)
		case spreadsheet.EntityTestPacks:
			res, err = svc.ImportTestPacks(ctx, rows)
		case spreadsheet.EntityITRs:
			res, err = svc.ImportITRs(ctx, subsystemID, rows)
		}

		if res != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(res)
		}
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:       "export <test-packs|itrs> <file.xlsx>",
	Short:     "Export test packs or ITRs to a workbook",
	Example:   "trackerctl export test-packs test-packs.xlsx",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{spreadsheet.EntityTestPacks, spreadsheet.EntityITRs},
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, path := args[0], args[1]
		if entity != spreadsheet.EntityTestPacks && entity != spreadsheet.EntityITRs {
			return errors.Errorf("cannot export %q", entity)
		}

		if _, err := bootstrap(); err != nil {
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if entity == spreadsheet.EntityTestPacks {
			packs, err := tracking.New(database.DB).ListTestPacks(cmd.Context(), tracking.TestPackFilter{})
			if err != nil {
				return err
			}
			return spreadsheet.WriteTestPacks(f, packs)
		}

		itrs, names, err := tracking.New(database.DB).ITRSheet(cmd.Context(), 0)
		if err != nil {
			return err
		}
		return spreadsheet.WriteITRs(f, itrs, names)
	},
}

func init() {
	importCmd.Flags().UintVar(&testPackID, "test-pack", 0, "target test pack id (tags)")
	importCmd.Flags().UintVar(&subsystemID, "subsystem", 0, "target subsystem id, overrides the subsystem_id column (itrs)")
}
