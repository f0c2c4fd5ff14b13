// Package paths resolves and validates the two roots mcsync works between.
//
// The destination root is the game directory. A configured override wins;
// otherwise [Resolver.Resolve] picks the per-user default for the host OS and
// fails with [ErrUnsupportedPlatform] elsewhere. The source root is the
// configured source_base or the working directory.
//
// [ValidateDir] turns a root into a [ValidationError] whose Kind is one of
// NotFound, NotADirectory, PermissionDenied or Unspecified:
//
//	if err := paths.ValidateDir(root); errors.Is(err, paths.ErrNotFound) {
//	    // game not installed at root
//	}
//
// The mcsync configuration directory itself follows XDG conventions through
// github.com/adrg/xdg ([ConfigHome], [AppConfigDir]).
package paths
