// Package acceptance decides whether a host engine implementation, wired
// end to end through a real scan, reproduces the reference dataset for a
// conformance fixture.
//
// The oracle executes the scan through pkg/scan, normalizes both the actual
// and the golden dataset via Canonicalize, and asserts equivalence: column
// values, schema field structure under an explicit comparison policy, and
// row count. Each violated invariant surfaces as its own error type so a
// test harness can attribute failure precisely.
package acceptance

import (
	"context"
	"log/slog"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/leapstack-labs/lakerunner/pkg/engine"
	"github.com/leapstack-labs/lakerunner/pkg/scan"
)

// SkipEntry marks a known-divergent fixture the oracle bypasses entirely.
// The reason is documentation, never logic.
type SkipEntry struct {
	// Suffix matches the end of a fixture's root directory.
	Suffix string
	// Reason records why the fixture diverges.
	Reason string
}

// OracleConfig carries the oracle's injected dependencies and policy.
type OracleConfig struct {
	// Skips lists known-divergent fixtures. Injected, not compiled in, so
	// harnesses can extend or override it.
	Skips []SkipEntry
	// SchemaCompare is the schema equivalence policy. Zero value means
	// strict comparison; use DefaultSchemaCompareOptions for the standard
	// relaxed policy.
	SchemaCompare SchemaCompareOptions
	Logger        *slog.Logger
}

// Oracle verifies one engine implementation against conformance fixtures.
type Oracle[J, P any] struct {
	engine     engine.Engine[J, P]
	planner    scan.Planner[J, P]
	skips      []SkipEntry
	schemaOpts SchemaCompareOptions
	logger     *slog.Logger
}

// NewOracle builds an oracle around an engine and a scan planner.
func NewOracle[J, P any](eng engine.Engine[J, P], planner scan.Planner[J, P], cfg OracleConfig) *Oracle[J, P] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle[J, P]{
		engine:     eng,
		planner:    planner,
		skips:      cfg.Skips,
		schemaOpts: cfg.SchemaCompare,
		logger:     logger,
	}
}

// SkipReason reports whether the test case matches a configured skip entry.
func (o *Oracle[J, P]) SkipReason(tc TestCase) (string, bool) {
	root := strings.TrimRight(tc.RootDir, "/")
	for _, s := range o.skips {
		if root == s.Suffix || strings.HasSuffix(root, "/"+s.Suffix) {
			return s.Reason, true
		}
	}
	return "", false
}

// Verify runs one test case to a verdict. Skip-listed cases succeed without
// touching the engine. Otherwise the planner's scan is executed and
// collected, both datasets are canonicalized, and the first violated check
// is returned: row count, column values, then schema field structure.
func (o *Oracle[J, P]) Verify(ctx context.Context, tc TestCase) error {
	if reason, ok := o.SkipReason(tc); ok {
		o.logger.Info("skipping test case", "case", tc.Name(), "reason", reason)
		return nil
	}

	sc, err := o.planner.Scan(ctx, o.engine, tc.TableRoot())
	if err != nil {
		return err
	}
	actual, err := scan.Collect(ctx, o.engine, sc)
	if err != nil {
		return err
	}
	actual, err = Canonicalize(actual)
	if err != nil {
		return err
	}

	golden, err := ReadGolden(ctx, o.engine, tc.RootURL())
	if err != nil {
		return err
	}
	if golden == nil {
		return &MissingGoldenDataError{TestCase: tc.Name()}
	}
	golden, err = Canonicalize(golden)
	if err != nil {
		return err
	}

	actualRows := int64(0)
	if actual != nil {
		actualRows = actual.NumRows()
	}
	if actualRows != golden.NumRows() {
		return &RowCountMismatchError{TestCase: tc.Name(), Actual: actualRows, Golden: golden.NumRows()}
	}
	if actual == nil {
		// Zero rows on both sides; nothing further to compare.
		return nil
	}

	if actual.NumCols() != golden.NumCols() {
		return &SchemaFieldMismatchError{TestCase: tc.Name(), Property: "field count differs"}
	}
	for i := 0; i < int(actual.NumCols()); i++ {
		if !array.Equal(actual.Column(i), golden.Column(i)) {
			return &DataMismatchError{TestCase: tc.Name(), Column: actual.Schema().Field(i).Name}
		}
	}

	if err := FieldsEquivalent(actual.Schema(), golden.Schema(), o.schemaOpts); err != nil {
		if mismatch, ok := err.(*SchemaFieldMismatchError); ok {
			mismatch.TestCase = tc.Name()
		}
		return err
	}
	return nil
}
