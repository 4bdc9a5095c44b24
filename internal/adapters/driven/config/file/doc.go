// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable summarizer prompt templates
//
// Both live under $CHATLENS_HOME (default ~/.chatlens). Any config key can
// be overridden from the environment, e.g. CHATLENS_SUMMARIZER_API_KEY.
package file
