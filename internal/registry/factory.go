package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/pkg/validator"
	"go.uber.org/zap"
)

// ErrUnknownClass - class записи не входит в закрытый список
var ErrUnknownClass = errors.New("unknown provider class")

// BuildFunc строит провайдера из записи конфигурации
type BuildFunc[T Provider] func(rec domain.ProviderRecord) (T, error)

// Factory - закрытое отображение class -> конструктор
type Factory[T Provider] struct {
	kind     domain.ProviderKind
	builders map[string]BuildFunc[T]
}

// NewFactory создает фабрику для вида провайдеров
func NewFactory[T Provider](kind domain.ProviderKind, builders map[string]BuildFunc[T]) Factory[T] {
	copied := make(map[string]BuildFunc[T], len(builders))
	for class, b := range builders {
		copied[class] = b
	}
	return Factory[T]{kind: kind, builders: copied}
}

// Kind - вид провайдеров фабрики
func (f Factory[T]) Kind() domain.ProviderKind {
	return f.kind
}

// Build строит провайдера. Любая ошибка - *domain.ConfigError.
func (f Factory[T]) Build(rec domain.ProviderRecord) (T, error) {
	var zero T
	build, ok := f.builders[rec.Class]
	if !ok {
		return zero, &domain.ConfigError{ProviderID: rec.ID, Class: rec.Class, Err: fmt.Errorf("%w for %s", ErrUnknownClass, f.kind)}
	}

	p, err := build(rec)
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			return zero, err
		}
		return zero, &domain.ConfigError{ProviderID: rec.ID, Class: rec.Class, Err: err}
	}
	return p, nil
}

// Classes - поддерживаемые классы, по алфавиту
func (f Factory[T]) Classes() []string {
	classes := make([]string, 0, len(f.builders))
	for class := range f.builders {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Typed превращает типизированный конструктор в BuildFunc: args записи
// декодируются в A (mapstructure) и валидируются (validate-теги).
func Typed[A any, T Provider](build func(id string, args A) (T, error)) BuildFunc[T] {
	return func(rec domain.ProviderRecord) (T, error) {
		var zero T
		args, err := DecodeArgs[A](rec.Args)
		if err != nil {
			return zero, err
		}
		return build(rec.ID, args)
	}
}

// DecodeArgs декодирует и валидирует аргументы провайдера
func DecodeArgs[A any](raw map[string]any) (A, error) {
	var args A
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &args,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return args, err
	}
	if err := decoder.Decode(raw); err != nil {
		return args, fmt.Errorf("decode args: %w", err)
	}
	if err := validator.Validate(args); err != nil {
		return args, fmt.Errorf("validate args: %w", err)
	}
	return args, nil
}

// BuildLegacy строит статический набор из файла конфигурации.
// Записи с ошибками пропускаются с логом.
func BuildLegacy[T Provider](f Factory[T], records []domain.ProviderRecord, logger *zap.Logger) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		p, err := f.Build(rec)
		if err != nil {
			logger.Error("Legacy provider skipped",
				zap.String("provider_kind", string(f.kind)),
				zap.String("provider_id", rec.ID),
				zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}
