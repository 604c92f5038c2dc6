// Package engine defines the capability contracts a host must implement to
// plug into the table-format protocol core.
//
// The protocol core never touches storage or decodes bytes itself. Everything
// I/O- or compute-heavy is delegated through a small set of capability
// interfaces: expression evaluation via [ExpressionHandler], file system
// access via [FileSystemClient], and log/data file decoding via [JSONHandler]
// and [ParquetHandler]. The [Engine] interface bundles one instance of each.
//
// File-read capabilities are contextualized: before reading, the core asks the
// handler to attach a read context to each file ([FileHandler]). The context
// type is chosen by the host and fixed at Engine construction; the core
// threads it through unopened. Hosts use it to carry split boundaries, pushed
// predicates, or any other scheduling hint between enumeration and read.
//
// Implementations must honor the ordering guarantees documented on each
// method; the conformance oracle in pkg/acceptance exercises them end to end.
package engine
