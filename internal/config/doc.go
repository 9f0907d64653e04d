// Package config provides configuration management for refscope.
//
// Values are read with Viper from, in decreasing priority: command line
// flags, REFSCOPE_* environment variables (a .env file in the working
// directory is loaded first), an optional config file, settings persisted
// with `refscope config`, and the `default` struct tags.
//
// # Configuration Structure
//
//   - repo: git_dir, remote (tracked remote branch), head (current branch)
//   - source: ls_remote (listing command override), file (saved listing)
//   - catalog: max_records
//   - log: level, format
//   - color: ui
//
// # Usage
//
//	cfg, err := config.Load(config.LoadOptions{Dir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Repo.GitDir)
package config
