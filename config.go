package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrSiteTitleRequired       = runtimeconfig.ErrSiteTitleRequired
	ErrSiteBaseURLInvalid      = runtimeconfig.ErrSiteBaseURLInvalid
	ErrArticlesDirRequired     = runtimeconfig.ErrArticlesDirRequired
	ErrArticlesPatternInvalid  = runtimeconfig.ErrArticlesPatternInvalid
	ErrArticlesLocationInvalid = runtimeconfig.ErrArticlesLocationInvalid
	ErrMarkdownStyleUnknown    = runtimeconfig.ErrMarkdownStyleUnknown
	ErrHTTPAddrRequired        = runtimeconfig.ErrHTTPAddrRequired
	ErrHTTPTimeoutInvalid      = runtimeconfig.ErrHTTPTimeoutInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	SiteConfig     = runtimeconfig.SiteConfig
	ArticlesConfig = runtimeconfig.ArticlesConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
