package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/devlog-go/internal/domain/entities/blog"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/markdown"
	"github.com/AtRiskMedia/devlog-go/internal/presentation/templates/richtext"
	"github.com/AtRiskMedia/devlog-go/pkg/config"
)

const (
	formatAuto     = "auto"
	formatDocument = "document"
	formatMarkdown = "markdown"
)

type renderOptions struct {
	format     string
	siteDomain string
	allowHTML  bool
	toMarkdown bool
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a rich-text document or markdown file to HTML",
		Long: `Render reads a Contentful rich-text document (JSON) or markdown from a file,
or from stdin when no file is given, and writes the body HTML to stdout.

Examples:
  devlog-go render post.json
  cat post.md | devlog-go render --format markdown
  devlog-go render post.json --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runRender(in, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatAuto, "Input format: auto, document or markdown")
	cmd.Flags().StringVar(&opts.siteDomain, "site-domain", config.SiteDomain, "Domain whose links count as internal")
	cmd.Flags().BoolVar(&opts.allowHTML, "allow-html", config.MarkdownAllowHTML, "Pass sanitized raw HTML through in markdown")
	cmd.Flags().BoolVar(&opts.toMarkdown, "markdown", false, "Write markdown instead of HTML")
	return cmd
}

func runRender(in io.Reader, out io.Writer, opts renderOptions) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	body, err := decodeInput(raw, opts.format)
	if err != nil {
		return err
	}

	renderer := templates.NewContentRenderer(
		richtext.NewRenderer(richtext.Options{SiteDomain: opts.siteDomain}),
		markdown.NewRenderer(markdown.Options{
			SiteDomain: opts.siteDomain,
			AllowHTML:  opts.allowHTML,
			CodeStyle:  config.CodeHighlightStyle,
		}),
	)

	if opts.toMarkdown {
		md, err := renderer.BodyMarkdown(body)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, md)
		return err
	}

	_, err = fmt.Fprintln(out, renderer.RenderBody(body))
	return err
}

// decodeInput picks the body variant. In auto mode input that starts with a
// JSON object is a document; everything else is markdown.
func decodeInput(raw []byte, format string) (blog.Body, error) {
	switch format {
	case formatMarkdown:
		return blog.MarkdownBody{Source: string(raw)}, nil
	case formatDocument:
		return decodeDocument(raw)
	case formatAuto:
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return decodeDocument(trimmed)
		}
		return blog.MarkdownBody{Source: string(raw)}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want auto, document or markdown)", format)
	}
}

func decodeDocument(raw []byte) (blog.Body, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("document input must be a JSON object")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("document input is not valid JSON")
	}
	return blog.DecodeBody(trimmed)
}
