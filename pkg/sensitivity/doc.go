// Package sensitivity converts in-game sensitivity and yaw into the raw device
// counts and physical distance of a full turn. Recomputes are split into three
// entry points so a preset switch can hold the increment while a sensitivity
// edit holds sensitivity; zero denominators always produce zero.
package sensitivity
