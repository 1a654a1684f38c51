package constants

import "time"

// HTTP Client 连接池配置
const (
	MaxIdleConns        = 256
	MaxIdleConnsPerHost = 64
	IdleConnTimeout     = 90 * time.Second

	// Keep-Alive 设置
	DefaultKeepAlive = 30 * time.Second
)

// Connection-level timeouts. They never bound the full request, which is
// left to the caller's context.
const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultExpectContinueTimeout = 2 * time.Second
)
