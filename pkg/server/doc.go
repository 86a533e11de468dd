/*
Package server serves a single file over HTTP.

The file is read once at startup and its content is returned, with a fixed content type, for
every request whatever its method or path. When watching is enabled, the content is reloaded
each time the file is rewritten.
*/
package server
