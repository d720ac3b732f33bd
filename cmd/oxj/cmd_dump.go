package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
	"github.com/TheDevMinerTV/oxidized-java/format"
)

func newDumpCmd(a *app) *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file.class|->",
		Short: "Dump a class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := openClassFile(args[0])
			if err != nil {
				return err
			}
			enc, err := format.New(a.formatFor(cmd, dumpFormat), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := enc.Encode(cf); err != nil {
				return fmt.Errorf("encode %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line",
		"output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}

// openClassFile decodes path, or standard input when path is "-".
func openClassFile(path string) (*classfile.ClassFile, error) {
	var (
		cf  *classfile.ClassFile
		err error
	)
	if path == "-" {
		var data []byte
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		cf, err = classfile.ParseBytes(data)
	} else {
		cf, err = classfile.ParseFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debugf("parsed %s: %s, %d pool slots", path, cf.ClassName(), len(cf.ConstantPool))
	return cf, nil
}
