// Package viz renders network snapshots as Cytoscape.js documents.
package viz

import (
	"encoding/json"
	"fmt"

	"github.com/knutsen/biograph/internal/graph"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format. Position is set
// only for nodes that already carry coordinates, so the preset layout can
// use them and every other layout ignores them.
type CytoscapeNode struct {
	Data     CytoscapeNodeData  `json:"data"`
	Position *CytoscapePosition `json:"position,omitempty"`
}

// CytoscapeNodeData contains the node data fields.
type CytoscapeNodeData struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	BirthYear int    `json:"birthYear,omitempty"`
	DeathYear int    `json:"deathYear,omitempty"`
}

// CytoscapePosition is an initial node position.
type CytoscapePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	EdgeType string `json:"edgeType"`
	Label    string `json:"label,omitempty"`
}

// ToCytoscapeJSON converts a snapshot to Cytoscape.js JSON format.
func ToCytoscapeJSON(snap *graph.Snapshot) (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(snap.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(snap.Edges)),
	}

	for _, n := range snap.Nodes {
		cyNode := CytoscapeNode{
			Data: CytoscapeNodeData{
				ID:        n.ID.String(),
				Label:     n.Label,
				BirthYear: n.BirthYear,
				DeathYear: n.DeathYear,
			},
		}
		if n.Placed() {
			cyNode.Position = &CytoscapePosition{X: *n.X, Y: *n.Y}
		}
		elements.Nodes = append(elements.Nodes, cyNode)
	}

	for i, e := range snap.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:       edgeID(e, i),
				Source:   e.Source.String(),
				Target:   e.Target.String(),
				EdgeType: string(e.Type),
				Label:    e.Label,
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID builds a unique Cytoscape element ID for an edge. The index
// disambiguates parallel edges of the same type between the same pair.
func edgeID(e graph.Edge, index int) string {
	return fmt.Sprintf("e%d-%d-%s-%d", e.Source, e.Target, e.Type, index)
}
