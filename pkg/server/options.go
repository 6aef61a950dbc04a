package server

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-parsejson/pkg/jsonparse"
	"github.com/goliatone/go-parsejson/pkg/page"
	"github.com/goliatone/go-parsejson/pkg/submit"
)

const (
	defaultParsePath    = "/parse-json"
	defaultStaticPath   = "/static/"
	defaultOpenAPIPath  = "/openapi.yaml"
	defaultMaxBodyBytes = 10 << 20
	defaultTitle        = "JSON Parser"
)

type Options struct {
	ParsePath    string
	StaticPath   string
	OpenAPIPath  string
	DataField    string
	FileField    string
	MaxBodyBytes int64
	MaxDepth     int
	Mode         submit.Mode
	Title        string

	Logger *zap.Logger
	Pages  *page.Engine
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		ParsePath:    defaultParsePath,
		StaticPath:   defaultStaticPath,
		OpenAPIPath:  defaultOpenAPIPath,
		DataField:    submit.FieldJSONData,
		FileField:    submit.FieldJSONFile,
		MaxBodyBytes: defaultMaxBodyBytes,
		MaxDepth:     jsonparse.DefaultMaxDepth,
		Mode:         submit.ModeCompact,
		Title:        defaultTitle,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.ParsePath == "" {
		opts.ParsePath = defaultParsePath
	}
	if opts.StaticPath == "" {
		opts.StaticPath = defaultStaticPath
	}
	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = defaultOpenAPIPath
	}
	if opts.DataField == "" {
		opts.DataField = submit.FieldJSONData
	}
	if opts.FileField == "" {
		opts.FileField = submit.FieldJSONFile
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = jsonparse.DefaultMaxDepth
	}
	if opts.Mode != submit.ModePretty {
		opts.Mode = submit.ModeCompact
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithParsePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ParsePath = path
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithMaxDepth(depth int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxDepth = depth
	}
}

// WithMode selects which browser script the index page loads.
func WithMode(mode submit.Mode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Mode = mode
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithPages overrides the template engine used for the index page.
func WithPages(engine *page.Engine) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Pages = engine
	}
}
