// Package all wires all built-in source backends into the source registry.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the source package. Importing it makes the following
// source kinds available at runtime:
//
//   - "postgres" (qexport/internal/source/postgres)
//   - "mysql"    (qexport/internal/source/mysql)
//   - "mssql"    (qexport/internal/source/mssql)
//   - "sqlite"   (qexport/internal/source/sqlite)
package all

import (
	_ "qexport/internal/source/mssql"
	_ "qexport/internal/source/mysql"
	_ "qexport/internal/source/postgres"
	_ "qexport/internal/source/sqlite"
)
