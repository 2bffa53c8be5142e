package indexer

import (
	"fmt"
	"regexp"

	"github.com/Malowking/askdb/pkg/schema"
)

var (
	createTableRe    = regexp.MustCompile(`(?s)CREATE TABLE (\w+)\s*\(.*?\);`)
	commentOnTableRe = regexp.MustCompile(`COMMENT ON TABLE (\w+) IS '([^']+)';`)
)

// ChunkSchema 把schema.sql文本切分成可检索的片段：
//  1. 完整schema作为一个片段（回答"有哪些表"类问题）
//  2. 每个CREATE TABLE块一个片段
//  3. 每条COMMENT ON TABLE注释一个片段
func ChunkSchema(text string) []*schema.Document {
	docs := make([]*schema.Document, 0)

	docs = append(docs, &schema.Document{
		Content:  text,
		MetaData: map[string]any{"type": "full_schema"},
	})

	for _, m := range createTableRe.FindAllStringSubmatch(text, -1) {
		docs = append(docs, &schema.Document{
			Content:  m[0],
			MetaData: map[string]any{"type": "table", "table": m[1]},
		})
	}

	for _, m := range commentOnTableRe.FindAllStringSubmatch(text, -1) {
		docs = append(docs, &schema.Document{
			Content:  fmt.Sprintf("Table %s: %s", m[1], m[2]),
			MetaData: map[string]any{"type": "comment", "table": m[1]},
		})
	}

	return docs
}
