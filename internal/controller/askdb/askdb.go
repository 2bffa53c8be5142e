package askdb

import (
	"github.com/Malowking/askdb/agent/pipeline"
	"github.com/Malowking/askdb/core/config"
	"github.com/Malowking/askdb/core/vector_store"
	"github.com/Malowking/askdb/indexer"
)

// ControllerV1 问答服务控制器
type ControllerV1 struct {
	cfg             *config.Config
	pipeline        *pipeline.Pipeline
	schemaRetriever *vector_store.Retriever
	docRetriever    *vector_store.Retriever
	indexer         *indexer.Indexer
}

func NewV1(cfg *config.Config, p *pipeline.Pipeline,
	schemaRetriever, docRetriever *vector_store.Retriever, idx *indexer.Indexer) *ControllerV1 {
	return &ControllerV1{
		cfg:             cfg,
		pipeline:        p,
		schemaRetriever: schemaRetriever,
		docRetriever:    docRetriever,
		indexer:         idx,
	}
}
