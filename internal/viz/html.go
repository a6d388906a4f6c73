package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/knutsen/biograph/internal/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "preset", "force", "circle", or "grid"
	Title  string // page title; empty uses a default
}

// DefaultOptions returns default HTML generation options. The preset
// layout honors the coordinates seeded by the layout pass.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Layout: "preset", Title: "Relationship Network"}
}

// GenerateHTML generates a self-contained HTML file for the network
// visualization.
func GenerateHTML(snap *graph.Snapshot, opts HTMLOptions) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("snapshot cannot be nil")
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if snap.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := ToCytoscapeJSON(snap)
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     opts.Title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "preset", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be preset, force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
}

// layoutToCytoscape converts layout names to Cytoscape.js layout names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	case "force":
		return "cose"
	default:
		return "preset"
	}
}

// generateEmptyHTML returns HTML for an empty network state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Relationship Network - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state { text-align: center; color: #666; }
    .empty-state h2 { margin-bottom: 0.5em; color: #333; }
    .empty-state code { background: #e0e0e0; padding: 2px 6px; border-radius: 3px; }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No network data</h2>
    <p>Build a network first with <code>biograph network --person ID</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy { width: 100%; height: 100vh; background: white; }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .label { font-weight: bold; margin-bottom: 4px; }
    #tooltip .detail { color: #555; }
    #legend {
      position: absolute;
      top: 12px;
      left: 12px;
      background: rgba(255,255,255,0.9);
      border: 1px solid #ddd;
      border-radius: 4px;
      padding: 8px 12px;
      font-size: 12px;
    }
    #legend .swatch {
      display: inline-block;
      width: 10px;
      height: 10px;
      border-radius: 2px;
      margin-right: 6px;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <div id="legend">
    <div><span class="swatch" style="background:#c0392b"></span>kinship</div>
    <div><span class="swatch" style="background:#2980b9"></span>association</div>
    <div><span class="swatch" style="background:#27ae60"></span>office</div>
  </div>
  <script>
    const graphData = {{.GraphJSON}};
    const edgeColors = { kinship: '#c0392b', association: '#2980b9', office: '#27ae60' };

    const cy = cytoscape({
      container: document.getElementById('cy'),
      elements: graphData,
      layout: { name: '{{.Layout}}' },
      style: [
        {
          selector: 'node',
          style: {
            'label': 'data(label)',
            'font-size': '11px',
            'text-valign': 'bottom',
            'text-margin-y': 4,
            'background-color': '#34495e',
            'width': 18,
            'height': 18
          }
        },
        {
          selector: 'edge',
          style: {
            'width': 1.5,
            'curve-style': 'bezier',
            'line-color': '#bbb'
          }
        },
        { selector: 'edge[edgeType = "kinship"]', style: { 'line-color': edgeColors.kinship } },
        { selector: 'edge[edgeType = "association"]', style: { 'line-color': edgeColors.association } },
        { selector: 'edge[edgeType = "office"]', style: { 'line-color': edgeColors.office } }
      ]
    });

    const tooltip = document.getElementById('tooltip');
    cy.on('mouseover', 'node', evt => {
      const d = evt.target.data();
      let detail = '';
      if (d.birthYear || d.deathYear) {
        detail = '<div class="detail">' + (d.birthYear || '?') + ' – ' + (d.deathYear || '?') + '</div>';
      }
      tooltip.innerHTML = '<div class="label">' + d.label + '</div>' + detail;
      tooltip.style.display = 'block';
    });
    cy.on('mouseout', 'node', () => { tooltip.style.display = 'none'; });
    cy.on('mousemove', evt => {
      tooltip.style.left = (evt.originalEvent.pageX + 12) + 'px';
      tooltip.style.top = (evt.originalEvent.pageY + 12) + 'px';
    });
  </script>
</body>
</html>`
