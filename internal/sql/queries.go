package sql

import (
	_ "embed"
)

//go:embed queries/register_document.sql
var RegisterDocument string

//go:embed queries/lookup_document.sql
var LookupDocument string

//go:embed queries/update_document_status.sql
var UpdateDocumentStatus string

//go:embed queries/transform_stage_to_codes.sql
var TransformStageToCodes string

//go:embed queries/upsert_major.sql
var UpsertMajor string

//go:embed queries/upsert_chapter.sql
var UpsertChapter string

//go:embed queries/delete_staging_batch.sql
var DeleteStagingBatch string

//go:embed queries/deactivate_older_versions.sql
var DeactivateOlderVersions string

//go:embed queries/activate_version.sql
var ActivateVersion string

//go:embed queries/search_codes.sql
var SearchCodes string
