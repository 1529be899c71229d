package schema

import (
	"fmt"

	"github.com/0xbe1/liquidated/schema"
	"github.com/spf13/cobra"
)

type schemaCmd struct {
	entities bool
}

func (c schemaCmd) run(cmd *cobra.Command) error {
	s, err := schema.Load()
	if err != nil {
		return err
	}
	out := s.SDL
	if c.entities {
		out = schema.EntitySDL()
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func NewSchemaCmd() *cobra.Command {
	c := schemaCmd{}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Prints the GraphQL schema served by the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().BoolVar(&c.entities, "entities", false, "print the entity schema the API is derived from")
	return cmd
}
