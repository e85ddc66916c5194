// Package task implements the asynchronous extraction pipeline: a bounded
// in-memory queue, a pool of workers that drive each task through the
// pending -> processing -> terminal lifecycle, and a monitor that bounds
// how long a task may stay in processing.
package task
