package wsbridge

import "net/http"

// servePage serves the viewer page.
func servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(pageHTML))
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Orbit Viewer</title>
    <script type="module" src="https://ajax.googleapis.com/ajax/libs/model-viewer/3.5.0/model-viewer.min.js"></script>
    <style>
        body { margin: 0; font-family: Arial, sans-serif; background: #111; color: #eee; }
        #stage { position: sticky; top: 0; width: 100vw; height: 100vh; }
        model-viewer { width: 100%; height: 100%; }
        #sections { height: 400vh; }
        #overlay { position: absolute; inset: 0; pointer-events: none; }
        .label { position: absolute; background: rgba(0,0,0,.7); padding: 8px; pointer-events: auto; user-select: text; }
        #status { position: absolute; left: 12px; bottom: 12px; }
    </style>
</head>
<body>
<div id="stage">
    <model-viewer id="mv" interaction-prompt="none"></model-viewer>
    <svg id="lines" style="position:absolute;inset:0;width:100%;height:100%;pointer-events:none"></svg>
    <div id="overlay"></div>
    <div id="status">loading</div>
</div>
<div id="sections"></div>
<script>
const mv = document.getElementById('mv');
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
const send = m => { if (ws.readyState === 1) { m.at = Date.now(); ws.send(JSON.stringify(m)); } };

ws.onmessage = e => {
    const m = JSON.parse(e.data);
    if (m.type === 'asset') loadAsset(m.src);
    if (m.type === 'state') applyState(m.state);
    if (m.type === 'overlay') drawOverlay(m.overlay);
    if (m.type === 'counters') document.getElementById('status').textContent =
        m.counters.views + ' views, ' + m.counters.likes + ' likes';
};
ws.onopen = () => send({type: 'viewport', width: innerWidth, height: innerHeight});

function loadAsset(src) {
    if (src && mv.getAttribute('src') !== src) mv.setAttribute('src', src);
}

function applyState(s) {
    loadAsset(s.src);
    if (s.resetFraming) { mv.fieldOfView = 'auto'; mv.cameraTarget = 'auto auto auto'; }
    mv.interpolationDecay = s.transition === 'instant' ? 0 : 200;
    mv.cameraOrbit = s.cameraOrbit;
    mv.autoRotate = s.autoRotate;
    mv.cameraControls = s.interactionEnabled;
    mv.disablePan = s.panLocked;
    mv.disableZoom = s.zoomLocked;
}

function drawOverlay(o) {
    const root = document.getElementById('overlay');
    const lines = document.getElementById('lines');
    root.innerHTML = '';
    lines.innerHTML = '';
    if (!o || !o.Visible) return;
    o.Labels.forEach(l => {
        if (l.Empty) return;
        const d = document.createElement('div');
        d.className = 'label';
        d.textContent = l.Text;
        Object.assign(d.style, {left: l.Bounds.X + 'px', top: l.Bounds.Y + 'px',
            width: l.Bounds.Width + 'px', height: l.Bounds.Height + 'px'});
        root.appendChild(d);
    });
    o.Connectors.forEach(c => {
        const ln = document.createElementNS('http://www.w3.org/2000/svg', 'line');
        ln.setAttribute('x1', c.From.X); ln.setAttribute('y1', c.From.Y);
        ln.setAttribute('x2', c.To.X); ln.setAttribute('y2', c.To.Y);
        ln.setAttribute('stroke', '#fff');
        lines.appendChild(ln);
    });
}

mv.addEventListener('progress', e => send({type: 'progress', progress: e.detail.totalProgress}));
mv.addEventListener('load', () => send({type: 'load', ar: mv.canActivateAR}));
mv.addEventListener('error', e => send({type: 'error', error: String(e.detail && e.detail.type || 'load failed')}));

const ptr = phase => e => send({type: 'pointer', phase, pointer: e.pointerType === 'mouse' ? 0 : (e.pointerId % 9) + 1, x: e.clientX, y: e.clientY});
mv.addEventListener('pointerdown', ptr('down'));
mv.addEventListener('pointermove', e => { if (e.buttons) ptr('move')(e); });
mv.addEventListener('pointerup', ptr('up'));
mv.addEventListener('pointerleave', ptr('leave'));
mv.addEventListener('pointercancel', ptr('leave'));
addEventListener('scroll', () => send({type: 'scroll', offset: scrollY}), {passive: true});
addEventListener('resize', () => send({type: 'viewport', width: innerWidth, height: innerHeight}));
addEventListener('keydown', e => {
    if (e.key >= '1' && e.key <= '9') send({type: 'tab', index: Number(e.key) - 1});
    if (e.key === 'e') send({type: 'mode', mode: 'explore'});
    if (e.key === 'g') send({type: 'mode', mode: 'guided'});
    if (e.key === 'l') send({type: 'like'});
});
</script>
</body>
</html>
`
