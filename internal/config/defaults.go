package config

// DefaultSkips returns the built-in skip list: fixtures with documented,
// pre-existing divergences between the reference encoding and the protocol's
// specified read behavior. These are not test failures.
func DefaultSkips() []SkipConfig {
	return []SkipConfig{
		{
			Suffix: "iceberg_compat_v1",
			Reason: "iceberg compat requires column mapping, which the reader does not support",
		},
		{
			Suffix: "multi_partitioned_2",
			Reason: "golden table stores the partition timestamp as INT96 (nanosecond precision) " +
				"while partition columns are read as microseconds, so read and golden data " +
				"cannot line up until the fixture is regenerated upstream",
		},
	}
}
