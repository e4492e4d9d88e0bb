// Command stashsync reconciles organizer scenes with a media server.
//
// It runs either as an organizer plugin, reading a hook payload on
// stdin (the hook command), or interactively for one scene at a time
// (the sync and resolve commands). Cache and config subcommands manage
// the stored scene-to-item mappings and the configuration file.
package main
