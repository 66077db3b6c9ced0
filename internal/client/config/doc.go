// Package config loads runtime configuration for the herocards client.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. A JSON file selected with -c or -config.
//  3. HEROCARDS_* environment variables, e.g. HEROCARDS_REMOTE_ADDR.
//  4. Command-line flags -a, -d, -i and -l.
//
// Intervals in the JSON file use timex.Duration, so both "3s" and integer
// nanoseconds are accepted:
//
//	{
//	  "remote_addr": "cards.example:50051",
//	  "online_check_interval": "5s",
//	  "s3_bucket": "herocards-media"
//	}
package config
