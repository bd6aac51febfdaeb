// Package epoll wraps the readiness primitive the reactor polls:
// golang.org/x/sys/unix's epoll_create1/epoll_ctl/epoll_wait bindings on
// Linux. Error and hang-up flags are implicit in every registration, so
// callers never forget to ask for them (spec.md §4.1).
package epoll
