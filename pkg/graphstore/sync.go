// Copyright 2025 Stencila
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// row is one node's projection into its table, keyed by nodeId.
type row struct {
	table  string
	fields map[string]any
}

// Sync projects root (the whole current state of document docID, after a
// patch has been applied to the in-memory tree) into the graph store: every
// projectable node's row is upserted and every node that no longer appears
// in the tree is deleted along with its owns edges. This is the same
// granularity the teacher's ingestion pipeline re-syncs a file at (whole
// entity, not per-edit), traded here for an entire document rather than an
// entire source file; a live editor only calls Sync after coalescing a
// patch, not once per keystroke.
func (s *Store) Sync(ctx context.Context, docID string, root schema.Node) error {
	rows, owns := project(docID, root)

	for _, r := range rows {
		if err := s.putRow(ctx, r); err != nil {
			return err
		}
	}
	for _, edge := range owns {
		if err := s.putOwns(ctx, edge.from, edge.to, edge.position); err != nil {
			return err
		}
	}

	return s.deleteOrphans(ctx, docID, rows)
}

type ownsEdge struct {
	from, to string
	position int
}

// project walks root and builds the row set and owns edges for every
// supported node kind. Unsupported kinds (validators, primitives-as-nodes)
// are silently skipped, the same way the codec framework counts an
// unsupported node as loss rather than failing outright.
func project(docID string, root schema.Node) ([]row, []ownsEdge) {
	var rows []row
	var owns []ownsEdge
	position := map[string]int{}

	parent := map[string]string{}

	schema.Walk(root, func(addr address.Address, n schema.Node) bool {
		table, fields, ok := fieldsFor(n)
		if !ok {
			return true
		}

		nodeID := n.NodeID()
		ancestors := ancestorIDs(root, addr)
		var parentID string
		if len(ancestors) > 0 {
			parentID = ancestors[len(ancestors)-1]
		}

		fields["nodeId"] = nodeID
		fields["docId"] = docID
		fields["nodePath"] = addr.String()
		fields["nodeAncestors"] = ancestors

		pos := position[parentID]
		fields["position"] = pos
		position[parentID] = pos + 1

		rows = append(rows, row{table: table, fields: fields})

		if parentID != "" {
			owns = append(owns, ownsEdge{from: parentID, to: nodeID, position: pos})
		}
		parent[nodeID] = parentID
		return true
	})

	return rows, owns
}

// ancestorIDs re-walks root collecting the node id at every prefix of addr,
// since Walk only gives the addresses of nodes it's currently visiting.
func ancestorIDs(root schema.Node, addr address.Address) []string {
	var ids []string
	schema.Walk(root, func(a address.Address, n schema.Node) bool {
		if len(a) >= len(addr) {
			return len(a) < len(addr)
		}
		if isPrefix(a, addr) {
			ids = append(ids, n.NodeID())
		}
		return true
	})
	return ids
}

func isPrefix(prefix, addr address.Address) bool {
	if len(prefix) > len(addr) {
		return false
	}
	for i, slot := range prefix {
		if slot != addr[i] {
			return false
		}
	}
	return true
}

// fieldsFor extracts a node's table name and column values. Only node
// kinds with an entry in nodeTables are supported.
func fieldsFor(n schema.Node) (string, map[string]any, bool) {
	switch v := n.(type) {
	case schema.Article:
		return "article", map[string]any{"title": plainText(v.Title), "content_text": ""}, true
	case schema.Heading:
		return "heading", map[string]any{"level": v.Level, "content_text": plainText(v.Content)}, true
	case schema.Paragraph:
		return "paragraph", map[string]any{"content_text": plainText(v.Content)}, true
	case schema.List:
		return "list", map[string]any{"ordered": v.Order == "Ascending"}, true
	case schema.ListItem:
		return "list_item", map[string]any{"content_text": blockText(v.Content)}, true
	case schema.CodeChunk:
		return "code_chunk", map[string]any{
			"code":         v.Code.String(),
			"language":     v.ProgrammingLanguage,
			"output_text":  outputsText(v.Outputs),
		}, true
	case schema.MathBlock:
		return "math_block", map[string]any{"code": v.Code.String(), "language": v.MathLanguage}, true
	case schema.QuoteBlock:
		return "quote_block", map[string]any{"content_text": blockText(v.Content)}, true
	case schema.Section:
		return "section", map[string]any{"section_type": v.SectionType}, true
	case schema.IfBlock:
		return "if_block", map[string]any{}, true
	case schema.ForBlock:
		return "for_block", map[string]any{
			"variable": v.Variable,
			"code":     v.Code.String(),
			"language": v.ProgrammingLanguage,
		}, true
	case schema.Chat:
		return "chat", map[string]any{"prompt": v.PromptID}, true
	case schema.Table:
		return "table", map[string]any{}, true
	case schema.Figure:
		return "figure", map[string]any{"caption_text": blockText(v.Caption)}, true
	default:
		return "", nil, false
	}
}

func plainText(inlines schema.Inlines) string {
	var b strings.Builder
	for _, in := range inlines {
		writeInlineText(&b, in)
	}
	return b.String()
}

func writeInlineText(b *strings.Builder, in schema.Inline) {
	switch v := in.(type) {
	case schema.Text:
		b.WriteString(v.Value.String())
	case schema.Strong:
		for _, c := range v.Content {
			writeInlineText(b, c)
		}
	case schema.Emphasis:
		for _, c := range v.Content {
			writeInlineText(b, c)
		}
	case schema.Link:
		for _, c := range v.Content {
			writeInlineText(b, c)
		}
	}
}

func blockText(blocks schema.Blocks) string {
	var b strings.Builder
	for _, blk := range blocks {
		if p, ok := blk.(schema.Paragraph); ok {
			b.WriteString(plainText(p.Content))
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

func outputsText(outputs []schema.Node) string {
	var b strings.Builder
	for _, o := range outputs {
		if t, ok := o.(schema.Text); ok {
			b.WriteString(t.Value.String())
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// putRow upserts r, keyed on the node's own stable id (fields["nodeId"],
// set by project). nodePath is stored as an ordinary column alongside it:
// it is only unique within the document it was projected from, so using it
// as the table's primary key would collide across documents that happen to
// share a relative address (e.g. both have a paragraph at "Content.0").
func (s *Store) putRow(ctx context.Context, r row) error {
	cols := make([]string, 0, len(r.fields))
	for k := range r.fields {
		cols = append(cols, k)
	}

	script := fmt.Sprintf(":put %s {%s}", r.table, strings.Join(cols, ", "))
	params := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		params[k] = v
	}
	_, err := s.db.Run(script, params)
	if err != nil {
		return fmt.Errorf("graphstore: put %s row: %w", r.table, err)
	}
	return nil
}

func (s *Store) putOwns(ctx context.Context, from, to string, position int) error {
	script := `:put owns {from_node_id, to_node_id => position}`
	params := map[string]any{"from_node_id": from, "to_node_id": to, "position": position}
	_, err := s.db.Run(script, params)
	if err != nil {
		return fmt.Errorf("graphstore: put owns edge: %w", err)
	}
	return nil
}

// deleteOrphans removes every row previously projected for docID whose
// nodeId is not present in the freshly computed row set, along with any
// owns edge touching it, mirroring the cascade-delete the teacher's
// ingestion pipeline performs when a source file's re-parse drops a
// function or type that used to exist.
func (s *Store) deleteOrphans(ctx context.Context, docID string, current []row) error {
	live := map[string]bool{}
	for _, r := range current {
		if id, ok := r.fields["nodeId"].(string); ok {
			live[id] = true
		}
	}

	for table := range nodeTables {
		result, err := s.db.RunReadOnly(
			fmt.Sprintf(`?[nodeId] := *%s{nodeId, docId}, docId = $docId`, table),
			map[string]any{"docId": docID},
		)
		if err != nil {
			return fmt.Errorf("graphstore: list %s rows for cascade delete: %w", table, err)
		}
		for _, r := range result.Rows {
			if len(r) == 0 {
				continue
			}
			id, _ := r[0].(string)
			if live[id] {
				continue
			}
			if _, err := s.db.Run(fmt.Sprintf(":rm %s {nodeId: $nodeId}", table), map[string]any{"nodeId": id}); err != nil {
				return fmt.Errorf("graphstore: delete orphan %s row: %w", table, err)
			}
			if _, err := s.db.Run(`:rm owns {from_node_id: $id}`, map[string]any{"id": id}); err != nil {
				return fmt.Errorf("graphstore: delete orphan owns edges (as parent): %w", err)
			}
			if _, err := s.db.Run(`:rm owns {to_node_id: $id}`, map[string]any{"id": id}); err != nil {
				return fmt.Errorf("graphstore: delete orphan owns edges (as child): %w", err)
			}
		}
	}
	return nil
}
