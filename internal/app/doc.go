// Package app is the application layer. Service is the only component that
// references multiple domain components; it orchestrates the login callback
// and the full roast pipeline (token check, parallel fetch, analysis,
// generation, persistence).
package app
