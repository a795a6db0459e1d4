// Package mutate is the file toolkit generators use to materialize a project.
// A Toolkit is rooted at the target directory and addresses files by
// relative path. Apart from Write, every operation is safe to repeat: text
// insertions skip content that is already present and manifest merges skip
// or overwrite entries by name. All writes go through a temp file and rename.
package mutate
