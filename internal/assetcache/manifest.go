package assetcache

// engineOrigin is the asset origin of the hosted diagram engine.
const engineOrigin = "https://app.diagrams.net"

// EngineBootstrapURL is the page a render session navigates to. It loads the
// export build of the engine and exposes the in-page render entry point.
const EngineBootstrapURL = engineOrigin + "/export3.html"

// EngineManifest returns the fixed set of remote files the engine needs at
// render time: the bootstrap page, the export build of the engine, and the
// math typesetting scripts with their loader configuration.
func EngineManifest() []Resource {
	return []Resource{
		{URL: EngineBootstrapURL, Path: "export3.html"},
		{URL: engineOrigin + "/js/export.min.js", Path: "js/export.min.js"},
		{URL: engineOrigin + "/js/math-print.js", Path: "js/math-print.js"},
		{URL: engineOrigin + "/math/es5/startup.js", Path: "math/es5/startup.js"},
		{URL: engineOrigin + "/math/es5/tex-svg.js", Path: "math/es5/tex-svg.js"},
		{URL: engineOrigin + "/math/es5/input/tex/extensions/noerrors.js", Path: "math/es5/input/tex/extensions/noerrors.js"},
	}
}
