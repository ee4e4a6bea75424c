// Package retriever pages stored topic messages to a consumer with bounded
// retry and optional throttling between pages.
package retriever
