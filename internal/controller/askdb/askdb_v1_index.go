package askdb

import (
	"context"

	v1 "github.com/Malowking/askdb/api/askdb/v1"
	"github.com/gogf/gf/v2/frame/g"
)

// IndexSchema 索引数据库schema文本（整体重建schema语料集合）
func (c *ControllerV1) IndexSchema(ctx context.Context, req *v1.IndexSchemaReq) (res *v1.IndexSchemaRes, err error) {
	g.Log().Infof(ctx, "收到schema索引请求，内容长度: %d", len(req.Schema))

	count, err := c.indexer.IndexSchema(ctx, c.cfg.Pipeline.SchemaCollection, req.Schema)
	if err != nil {
		return nil, err
	}

	return &v1.IndexSchemaRes{Chunks: count}, nil
}

// IndexHTML 索引HTML文档（追加写入文档语料集合）
func (c *ControllerV1) IndexHTML(ctx context.Context, req *v1.IndexHTMLReq) (res *v1.IndexHTMLRes, err error) {
	g.Log().Infof(ctx, "收到HTML索引请求 - source: %s, 内容长度: %d", req.Source, len(req.HTML))

	count, err := c.indexer.IndexHTML(ctx, c.cfg.Pipeline.DocCollection, req.Source, req.HTML)
	if err != nil {
		return nil, err
	}

	return &v1.IndexHTMLRes{Chunks: count}, nil
}
