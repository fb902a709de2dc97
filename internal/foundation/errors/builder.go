package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	recovery Recovery
	message  string
	cause    error
	context  ErrorContext
}

// NewError starts a builder with error severity and abort recovery.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		recovery: RecoveryAbort,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError starts a builder around an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

func (b *ErrorBuilder) WithRecovery(recovery Recovery) *ErrorBuilder {
	b.recovery = recovery
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }
func (b *ErrorBuilder) Info() *ErrorBuilder    { return b.WithSeverity(SeverityInfo) }

func (b *ErrorBuilder) SkipDocument() *ErrorBuilder { return b.WithRecovery(RecoverySkipDocument) }
func (b *ErrorBuilder) FullRebuild() *ErrorBuilder  { return b.WithRecovery(RecoveryFullRebuild) }
func (b *ErrorBuilder) Ignore() *ErrorBuilder       { return b.WithRecovery(RecoveryIgnore) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder   { return b.WithRecovery(RecoveryUserAction) }

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		recovery: b.recovery,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the common cases.

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).UserAction()
}

// ContentError marks a problem with a single source document.
func ContentError(message string) *ErrorBuilder {
	return NewError(CategoryContent, message).Warning().SkipDocument()
}

// RenderError marks a page that could not be rendered; the page is retried next run.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Warning().FullRebuild()
}

// ManifestError marks lost or unwritable incremental state.
func ManifestError(message string) *ErrorBuilder {
	return NewError(CategoryManifest, message).Warning().FullRebuild()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
