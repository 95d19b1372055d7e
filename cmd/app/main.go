// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/durfee/passwords/cmd/app/commands"
	"github.com/durfee/passwords/internal/apiclient"
)

const version = "1.0.0"

// queryFlagKeys maps command line flag names to API query parameter names.
var queryFlagKeys = []struct {
	flag string
	key  string
}{
	{"domain-name", "domainName"},
	{"domain-name-ends-with", "domainNameEndsWith"},
	{"domain-name-contains", "domainNameContains"},
	{"username", "username"},
	{"username-starts-with", "usernameStartsWith"},
	{"username-contains", "usernameContains"},
	{"created-at", "createdAt"},
	{"created-before", "createdBefore"},
	{"created-after", "createdAfter"},
	{"modified-at", "modifiedAt"},
	{"modified-before", "modifiedBefore"},
	{"modified-after", "modifiedAfter"},
	{"accessed-at", "accessedAt"},
	{"accessed-before", "accessedBefore"},
	{"accessed-after", "accessedAfter"},
}

// clientFlags returns the connection flags shared by all client commands.
func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "configuration",
			Value: apiclient.DefaultConfigPath,
			Usage: "Location of the configuration file",
		},
		&cli.StringFlag{
			Name:    "certificate",
			Aliases: []string{"c"},
			Usage:   "Location of the certificate used for encryption and remote authentication",
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "Location of the key used for decryption and remote authentication",
		},
		&cli.StringFlag{
			Name:  "certificate-authority",
			Usage: "Location of the certificate authority chain validating the remote connection",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "API endpoint, overriding the configuration file",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Automatic yes to prompts; run non-interactively",
		},
		&cli.BoolFlag{
			Name:  "one",
			Usage: "Only display the decrypted password of the first result",
		},
		&cli.BoolFlag{
			Name:  "no-colors",
			Usage: "Do not use colors in console output",
		},
	}
}

// queryFlags returns the account matching flags. Matches are logically ANDed
// together; with no flags given, every account of the tenant matches.
func queryFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "domain-name",
			Aliases: []string{"d"},
			Usage:   "Match accounts whose domain name equals the provided value",
		},
		&cli.StringFlag{
			Name:  "domain-name-ends-with",
			Usage: "Match accounts whose domain name ends with the provided suffix (uses existing indexes)",
		},
		&cli.StringFlag{
			Name:  "domain-name-contains",
			Usage: "Match accounts whose domain name contains the provided pattern (requires an index scan)",
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Match accounts whose username equals the provided value",
		},
		&cli.StringFlag{
			Name:  "username-starts-with",
			Usage: "Match accounts whose username starts with the provided prefix (uses existing indexes)",
		},
		&cli.StringFlag{
			Name:  "username-contains",
			Usage: "Match accounts whose username contains the provided pattern (requires an index scan)",
		},
	}

	for _, name := range []string{"created", "modified", "accessed"} {
		flags = append(flags,
			&cli.StringFlag{
				Name:  name + "-at",
				Usage: "Match accounts " + name + " at the provided time",
			},
			&cli.StringFlag{
				Name:  name + "-before",
				Usage: "Match accounts " + name + " before the provided time",
			},
			&cli.StringFlag{
				Name:  name + "-after",
				Usage: "Match accounts " + name + " after the provided time",
			},
		)
	}

	return flags
}

// orderFlags returns the sorting flags, only meaningful for list.
func orderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "order",
			Value: "asc",
			Usage: "Sorting direction, asc or desc",
		},
		&cli.StringFlag{
			Name:  "order-by",
			Value: "domainName",
			Usage: "Field to sort results by",
		},
	}
}

// clientOptionsFromCmd builds the connection options from the parsed flags.
func clientOptionsFromCmd(cmd *cli.Command) commands.ClientOptions {
	return commands.ClientOptions{
		ConfigPath:           cmd.String("configuration"),
		Certificate:          cmd.String("certificate"),
		Key:                  cmd.String("key"),
		CertificateAuthority: cmd.String("certificate-authority"),
		BaseURL:              cmd.String("base-url"),
		Yes:                  cmd.Bool("yes"),
		One:                  cmd.Bool("one"),
		NoColors:             cmd.Bool("no-colors"),
	}
}

// queryFromCmd builds the API query parameters from the parsed flags.
func queryFromCmd(cmd *cli.Command, withOrder bool) url.Values {
	query := url.Values{}
	for _, mapping := range queryFlagKeys {
		if value := cmd.String(mapping.flag); value != "" {
			query.Set(mapping.key, value)
		}
	}

	if withOrder {
		if value := cmd.String("order"); value != "" {
			query.Set("order", value)
		}
		if value := cmd.String("order-by"); value != "" {
			query.Set("orderBy", value)
		}
	}

	return query
}

func main() {
	cmd := &cli.Command{
		Name:    "passwords",
		Usage:   "Remote secure password storage",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "list",
				Usage: "Get accounts matching the provided options, with decrypted passwords",
				Flags: append(append(clientFlags(), queryFlags()...), orderFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunClientList(
						ctx,
						clientOptionsFromCmd(cmd),
						queryFromCmd(cmd, true),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "create",
				Usage:     "Create an account, encrypting the password locally",
				ArgsUsage: "<domainName> <username> <password>",
				Flags:     clientFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 3 {
						return cli.Exit("create requires <domainName> <username> <password>", 1)
					}
					return commands.RunClientCreate(
						ctx,
						clientOptionsFromCmd(cmd),
						cmd.Args().Get(0),
						cmd.Args().Get(1),
						cmd.Args().Get(2),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "set-password",
				Usage:     "Set the password for accounts matching the provided options",
				ArgsUsage: "<password>",
				Flags:     append(clientFlags(), queryFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("set-password requires <password>", 1)
					}
					return commands.RunClientSetPassword(
						ctx,
						clientOptionsFromCmd(cmd),
						cmd.Args().Get(0),
						queryFromCmd(cmd, false),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "set-username",
				Usage:     "Set the username for accounts matching the provided options",
				ArgsUsage: "<username>",
				Flags:     append(clientFlags(), queryFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("set-username requires <username>", 1)
					}
					return commands.RunClientSetUsername(
						ctx,
						clientOptionsFromCmd(cmd),
						cmd.Args().Get(0),
						queryFromCmd(cmd, false),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete accounts matching the provided options",
				Flags: append(clientFlags(), queryFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunClientDelete(
						ctx,
						clientOptionsFromCmd(cmd),
						queryFromCmd(cmd, false),
						commands.DefaultIO(),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
