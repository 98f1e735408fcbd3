package resolver

import "fmt"

// MissingImportError reports an import directive whose target file does not
// exist. Fatal to the containing document's conversion.
type MissingImportError struct {
	Path       string // unresolved target path
	ImportedBy string // file containing the directive
	Err        error
}

func (e *MissingImportError) Error() string {
	return fmt.Sprintf("missing import %q in %s: %v", e.Path, e.ImportedBy, e.Err)
}

func (e *MissingImportError) Unwrap() error { return e.Err }

// MalformedTagError reports an opening tag with no matching close, or
// attribute syntax that cannot be parsed.
type MalformedTagError struct {
	Tag  string // tag name
	File string // document the tag was found in, if known
	Text string // offending tag text
}

func (e *MalformedTagError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("malformed <%s> tag in %s: %s", e.Tag, e.File, e.Text)
	}
	return fmt.Sprintf("malformed <%s> tag: %s", e.Tag, e.Text)
}

// UnknownVariableError reports a variable tag referencing a key absent from
// its catalog.
type UnknownVariableError struct {
	Key     string
	Catalog string // "global", "product" or "platform"
	File    string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown %s variable %q in %s", e.Catalog, e.Key, e.File)
}

// UnsupportedNestingError reports a wrapper tag nested inside a wrapper of
// the same type. The upstream tooling silently produced incorrect output for
// this shape; here it is rejected.
type UnsupportedNestingError struct {
	Tag  string
	File string
}

func (e *UnsupportedNestingError) Error() string {
	return fmt.Sprintf("unsupported nesting: <%s> inside <%s> in %s", e.Tag, e.Tag, e.File)
}

// ImportDepthError reports import expansion exceeding the recursion limit,
// which in practice means a cyclic import chain.
type ImportDepthError struct {
	Path  string
	Depth int
}

func (e *ImportDepthError) Error() string {
	return fmt.Sprintf("import depth limit (%d) exceeded at %s; cyclic imports?", e.Depth, e.Path)
}

// AssetCopyWarning records a Markdown image reference whose source file could
// not be copied. Non-fatal: the reference is left untouched and the warning
// is reported alongside the converted document.
type AssetCopyWarning struct {
	Source string // path the reference resolved to
	Ref    string // original reference text in the document
	Err    error
}

func (w AssetCopyWarning) String() string {
	return fmt.Sprintf("image %q not copied: %v", w.Ref, w.Err)
}
