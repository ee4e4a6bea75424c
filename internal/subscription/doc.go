// Package subscription implements the topic subscription engine: it verifies
// the topic, drains stored history, then follows the live pathway, merging
// the two into one gap-free, duplicate-free, consensus-ordered stream.
package subscription
