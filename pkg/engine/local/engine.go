package local

import (
	"log/slog"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
)

// Engine bundles the local capability implementations. It satisfies
// engine.Engine with JSONReadContext and ParquetReadContext as the
// read-context types.
type Engine struct {
	fs      *FileSystem
	json    *JSONHandler
	parquet *ParquetHandler
	exprs   *ExpressionHandler
	logger  *slog.Logger
}

var _ engine.Engine[JSONReadContext, ParquetReadContext] = (*Engine)(nil)

// New returns a fully wired local engine.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	fs := NewFileSystem(logger)
	return &Engine{
		fs:      fs,
		json:    NewJSONHandler(fs, logger),
		parquet: NewParquetHandler(logger),
		exprs:   NewExpressionHandler(logger),
		logger:  logger,
	}
}

// ExpressionHandler returns the expression capability.
func (e *Engine) ExpressionHandler() engine.ExpressionHandler { return e.exprs }

// FileSystemClient returns the file system capability.
func (e *Engine) FileSystemClient() engine.FileSystemClient { return e.fs }

// JSONHandler returns the JSON capability.
func (e *Engine) JSONHandler() engine.JSONHandler[JSONReadContext] { return e.json }

// ParquetHandler returns the parquet capability.
func (e *Engine) ParquetHandler() engine.ParquetHandler[ParquetReadContext] { return e.parquet }
