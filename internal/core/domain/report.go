package domain

import "errors"

// FileStatus is the outcome of processing one source file.
type FileStatus string

// Available file statuses.
const (
	// FileOK means the document was rendered and written.
	FileOK FileStatus = "ok"

	// FileFailed means the file raised a ParseError or IOError.
	FileFailed FileStatus = "failed"
)

// FileResult is the per-file entry of a RunReport.
type FileResult struct {
	// Path is the source path relative to the source root.
	Path string

	// Module is the dotted module name.
	Module string

	// OutputPath is the written document path relative to the output root.
	// Empty when the file failed.
	OutputPath string

	// Status is ok or failed.
	Status FileStatus

	// Err is the file-level error when Status is failed.
	Err error

	// Warnings raised while extracting the module.
	Warnings []DeclarationWarning

	// Declarations is the number of functions and methods extracted.
	Declarations int
}

// RunReport is the outcome of one generation run.
type RunReport struct {
	// RunID identifies the run in logs and JSON reports.
	// It is never written into generated documents.
	RunID string

	// SourceRoot and OutputRoot are the resolved roots.
	SourceRoot string
	OutputRoot string

	// Files are the per-file results in source-tree order.
	Files []FileResult

	// IndexPath is the index document path relative to the output root.
	// Empty when no index was written.
	IndexPath string

	// Findings are secret-scan findings, populated when scanning is enabled.
	Findings []Finding
}

// Succeeded returns the results with status ok.
func (r *RunReport) Succeeded() []FileResult {
	return r.filter(FileOK)
}

// Failed returns the results with status failed.
func (r *RunReport) Failed() []FileResult {
	return r.filter(FileFailed)
}

func (r *RunReport) filter(status FileStatus) []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out
}

// WarningCount returns the total number of declaration warnings.
func (r *RunReport) WarningCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Warnings)
	}
	return n
}

// Err returns ErrFilesFailed joined with every file error, or nil when all
// files succeeded.
func (r *RunReport) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed)+1)
	errs = append(errs, ErrFilesFailed)
	for _, f := range failed {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// ExitCode returns 0 on full success and 1 when any file failed.
func (r *RunReport) ExitCode() int {
	if len(r.Failed()) > 0 {
		return 1
	}
	return 0
}

// CheckReport compares the documents a run would produce with those on disk.
type CheckReport struct {
	// Stale documents exist but their content differs.
	Stale []string

	// Missing documents would be written but do not exist.
	Missing []string

	// Orphaned documents were produced by docgen but no module maps to them anymore.
	Orphaned []string

	// BrokenLinks are index link targets that do not exist.
	BrokenLinks []string

	// Failed are source files that could not be scanned.
	Failed []FileResult
}

// UpToDate returns true when nothing differs and no file failed.
func (c *CheckReport) UpToDate() bool {
	return len(c.Stale) == 0 &&
		len(c.Missing) == 0 &&
		len(c.Orphaned) == 0 &&
		len(c.BrokenLinks) == 0 &&
		len(c.Failed) == 0
}
