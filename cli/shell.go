package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storefront/catalog"
	"storefront/domain"
)

const shellHelp = `commands:
  search <text>        filter by title, brand or description (no text clears)
  price [min] [max]    price bounds, "-" for open ended
  brand [a,b,...]      restrict to brands (no args clears)
  rating [n]           minimum effective rating
  instock [on|off]     only products with stock (no arg toggles)
  sort <key>           default | price-asc | price-desc | rating-desc | newest
  page <n> | next | prev
  perpage <n>
  reset                clear all filters
  show <id>            product details
  review <id> <rating> <name> <comment...>
  facets               brands and price bounds
  refresh              reload the catalog
  list                 redraw the current page
  exit | quit`

// shell is an interactive browsing session over one catalog snapshot.
type shell struct {
	ctx     context.Context
	out     io.Writer
	raw     catalog.RawCriteria
	session *catalog.Session
}

func (sh *shell) apply() {
	sh.session.SetCriteria(catalog.ParseCriteria(sh.raw))
}

// exec runs one shell line. It returns false when the shell should exit.
func (sh *shell) exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.Join(args, " ")

	switch cmd {
	case "exit", "quit":
		return false, nil
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return true, nil
	case "search":
		sh.raw.Search = rest
		sh.apply()
	case "price":
		sh.raw.MinPrice, sh.raw.MaxPrice = "", ""
		if len(args) > 0 && args[0] != "-" {
			sh.raw.MinPrice = args[0]
		}
		if len(args) > 1 && args[1] != "-" {
			sh.raw.MaxPrice = args[1]
		}
		sh.apply()
	case "brand", "brands":
		sh.raw.Brands = nil
		if rest != "" {
			sh.raw.Brands = []string{rest}
		}
		sh.apply()
	case "rating":
		sh.raw.MinRating = rest
		sh.apply()
	case "instock":
		switch strings.ToLower(rest) {
		case "":
			sh.raw.InStock = !sh.raw.InStock
		case "on", "true", "yes", "1":
			sh.raw.InStock = true
		default:
			sh.raw.InStock = false
		}
		sh.apply()
	case "sort":
		sh.raw.Sort = rest
		sh.apply()
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return true, fmt.Errorf("page: %q is not a number", rest)
		}
		sh.session.GoToPage(n)
	case "next":
		sh.session.Next()
	case "prev":
		sh.session.Prev()
	case "perpage":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return true, fmt.Errorf("perpage: %q is not a number", rest)
		}
		sh.session.SetPerPage(n)
	case "reset":
		sh.raw = catalog.RawCriteria{}
		sh.session.Reset()
	case "list", "ls":
	case "show":
		return true, sh.show(rest)
	case "review":
		return true, sh.review(args)
	case "facets":
		renderFacets(sh.out, catalog.BuildFacets(sh.session.Catalog()))
		return true, nil
	case "refresh":
		if err := sh.refresh(); err != nil {
			return true, err
		}
	default:
		return true, fmt.Errorf("unknown command %q; type help", cmd)
	}

	renderView(sh.out, sh.session.View())
	return true, nil
}

func (sh *shell) show(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	p, err := catalogStore.Get(sh.ctx, id)
	if err != nil {
		return err
	}
	renderProduct(sh.out, p)
	return nil
}

func (sh *shell) review(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: review <id> <rating> <name> <comment...>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.NewInvalidProductError("rating", "must be a number", args[1])
	}
	p, err := catalogStore.AddReview(sh.ctx, id, domain.Review{
		ReviewerName: args[2],
		Comment:      strings.Join(args[3:], " "),
		Rating:       rating,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "review added; %s is now rated %s\n", p.Title, formatRating(domain.EffectiveRating(p)))
	return sh.refresh()
}

func (sh *shell) refresh() error {
	all, err := loadCatalog(sh.ctx)
	if err != nil {
		return err
	}
	sh.session.SetCatalog(all)
	return nil
}

func init() {
	var noBanner bool
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive browsing mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sh := &shell{
				ctx:     cmd.Context(),
				out:     out,
				session: catalog.NewSession(all, viper.GetInt("per-page")),
			}

			if !noBanner {
				fmt.Fprintln(out, figure.NewFigure("storefront", "", true).String())
			}
			fmt.Fprintf(out, "%d products loaded; type help for commands\n", len(all))
			renderView(out, sh.session.View())

			r := bufio.NewReader(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "storefront> ")
				line, err := r.ReadString('\n')
				if strings.TrimSpace(line) != "" {
					more, cerr := sh.exec(line)
					if cerr != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), cerr)
					}
					if !more {
						return nil
					}
				}
				if err != nil {
					return nil
				}
			}
		},
	}
	shellCmd.Flags().BoolVar(&noBanner, "no-banner", false, "skip the start-up banner")
	rootCmd.AddCommand(shellCmd)
}
