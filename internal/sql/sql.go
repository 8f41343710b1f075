package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/finish_run.sql
var FinishRun string

//go:embed queries/find_run_by_sha.sql
var FindRunBySHA string

//go:embed queries/get_run.sql
var GetRun string
