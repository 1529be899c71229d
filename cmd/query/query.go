package query

import (
	"encoding/json"
	"fmt"

	"github.com/0xbe1/liquidated/cmd/common"
	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/sdk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	queryDesc = `
'query' command runs one root field of the subgraph through the gateway SDK
and prints the result as JSON`
	queryExample = `  liquidated query liquidates --first 5 --order-by timestamp --order-direction desc
  liquidated query market --id 0x39aa39c021dfbae8fac545936693ac917d5e7563
  liquidated query _meta`
)

type queryCmd struct {
	field          string
	id             string
	first          int
	skip           int
	orderBy        string
	orderDirection string
	where          string
	block          int
	allowErrors    bool
}

func (c *queryCmd) validate() error {
	if c.field == "" {
		return errors.New("field is required")
	}
	if c.first < 0 || c.skip < 0 {
		return errors.New("--first and --skip must not be negative")
	}
	switch c.orderDirection {
	case "", string(models.OrderDirectionAsc), string(models.OrderDirectionDesc):
	default:
		return errors.Errorf("--order-direction must be asc or desc, got %q", c.orderDirection)
	}
	return nil
}

func (c *queryCmd) blockHeight() *sdk.BlockHeight {
	if c.block <= 0 {
		return nil
	}
	return sdk.AtBlock(c.block)
}

func (c *queryCmd) policy() sdk.ErrorPolicy {
	if c.allowErrors {
		return sdk.Allow
	}
	return ""
}

func (c *queryCmd) manyArgs() (sdk.ManyArgs, error) {
	args := sdk.ManyArgs{
		OrderBy:        c.orderBy,
		OrderDirection: models.OrderDirection(c.orderDirection),
		Block:          c.blockHeight(),
		SubgraphError:  c.policy(),
	}
	if c.first > 0 {
		args.First = sdk.Int(c.first)
	}
	if c.skip > 0 {
		args.Skip = sdk.Int(c.skip)
	}
	if c.where != "" {
		where := sdk.Where{}
		if err := json.Unmarshal([]byte(c.where), &where); err != nil {
			return args, errors.Wrap(err, "--where must be a JSON object")
		}
		args.Where = where
	}
	return args, nil
}

func (c *queryCmd) run(cmd *cobra.Command) error {
	conf, err := common.LoadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := common.NewMesh(conf)
	if err != nil {
		return err
	}
	defer m.Close()
	client := m.Sdk()
	ctx := cmd.Context()

	var out interface{}
	switch {
	case c.field == "_meta":
		out, err = client.Meta(ctx, c.blockHeight())
	case m.Schema().IsCollection("Query", c.field):
		var args sdk.ManyArgs
		args, err = c.manyArgs()
		if err != nil {
			return err
		}
		var raw json.RawMessage
		err = client.Collection(ctx, c.field, args, &raw)
		out = raw
	default:
		var raw json.RawMessage
		err = client.Entity(ctx, c.field, sdk.OneArgs{
			ID:            c.id,
			Block:         c.blockHeight(),
			SubgraphError: c.policy(),
		}, &raw)
		out = raw
	}
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func NewQueryCmd() *cobra.Command {
	c := &queryCmd{}
	cmd := &cobra.Command{
		Use:     "query <field>",
		Short:   "Runs a query against the subgraph",
		Long:    queryDesc,
		Example: queryExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.field = args[0]
			if err := c.validate(); err != nil {
				return err
			}
			return c.run(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.id, "id", "", "id of the entity, for single entity fields")
	f.IntVar(&c.first, "first", 0, "number of entities to return")
	f.IntVar(&c.skip, "skip", 0, "number of entities to skip")
	f.StringVar(&c.orderBy, "order-by", "", "field to order by")
	f.StringVar(&c.orderDirection, "order-direction", "", "asc or desc")
	f.StringVar(&c.where, "where", "", "filter as a JSON object, e.g. '{\"amountUSD_gt\":\"1000\"}'")
	f.IntVar(&c.block, "block", 0, "block number to query at")
	f.BoolVar(&c.allowErrors, "allow-errors", false, "return partial data when the subgraph has indexing errors")
	return cmd
}
