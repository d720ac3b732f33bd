package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
	"github.com/TheDevMinerTV/oxidized-java/format"
)

// newPoolCmd decodes only the header and the constant pool, so it also
// works on files whose later sections are damaged.
func newPoolCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pool <file.class>",
		Short: "Print the header and constant pool of a class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open class file: %w", err)
			}
			defer f.Close()

			d := classfile.NewDecoder(bufio.NewReader(f))
			h, err := d.ReadHeader()
			if err != nil {
				return fmt.Errorf("read header: %w", err)
			}
			cp, err := d.ReadConstantPool(h.ConstantPoolCount)
			if err != nil {
				return fmt.Errorf("read constant pool: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "minor version: %d\n", h.MinorVersion)
			fmt.Fprintf(out, "major version: %d (Java %s)\n", h.MajorVersion, h.JavaVersion())
			format.WritePool(out, cp)
			fmt.Fprintf(out, "constant pool ends at offset %d\n", d.Offset())
			return nil
		},
	}
}
