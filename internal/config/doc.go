// Package config provides configuration parsing for motion projects.
//
// The configuration is stored in motion.json at the project root.
// This package handles loading, saving, and validating configuration, and
// turns it into projection tree options.
//
// # Configuration File Structure
//
//	{
//	  "transition": {
//	    "type": "tween",
//	    "duration": "450ms",
//	    "ease": [0.4, 0, 0.1, 1]
//	  },
//	  "resizeDebounce": "250ms",
//	  "frameRate": 60,
//	  "roundToDevicePixels": false,
//	  "logLevel": "info",
//	  "server": {
//	    "addr": ":7070",
//	    "metricsPath": "/metrics"
//	  },
//	  "telemetry": {
//	    "enabled": true,
//	    "namespace": "motion"
//	  },
//	  "archive": {
//	    "bucket": "my-recordings",
//	    "prefix": "recordings/",
//	    "region": "us-east-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tree := projection.NewTree(host, cfg.TreeOptions()...)
package config
