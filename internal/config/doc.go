// Package config provides configuration loading for the reactive-demo
// command.
//
// Configuration is read with viper from an optional YAML file and from
// REACTIVE_ prefixed environment variables. Nested keys map to
// environment variables by replacing dots with underscores.
//
// # Configuration File Structure
//
//	debug: false
//	run:
//	  interval: 1s
//	  ticks: 5
//	watch:
//	  format: auto
//	serve:
//	  addr: ":8080"
//	  interval: 1s
//	metrics:
//	  namespace: reactive
//	  subsystem: ""
//
// # Usage
//
//	cfg, err := config.Load("reactive.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Ticks:", cfg.Run.Ticks)
package config
