package dashboard

// pageHTML is the dashboard page shell. Panel bodies are rendered
// server-side; the inline script only covers the interactive behaviors:
// search filtering over the rendered rows, the fullscreen image modal,
// and the manual refresh control.
const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.RefreshSec}}">
<title>Pantry Monitor</title>
<style>
body{background:#0f172a;color:#e2e8f0;font-family:-apple-system,'Segoe UI',sans-serif;margin:0;padding:24px}
h1{font-size:22px;margin:0}
.header{display:flex;justify-content:space-between;align-items:center;margin-bottom:24px}
.panel{background:#1e293b;border:1px solid #334155;border-radius:12px;padding:20px;margin-bottom:20px}
.panel h2{font-size:14px;text-transform:uppercase;letter-spacing:.05em;color:#94a3b8;margin:0 0 14px}
.panel-label{color:#64748b;font-size:13px;float:right}
.stats-grid{display:grid;grid-template-columns:repeat(4,1fr);gap:14px}
.stat-card{background:#0f172a;border-radius:8px;padding:14px;text-align:center}
.stat-value{font-size:24px;font-weight:700}
.stat-label{font-size:12px;color:#94a3b8;margin-top:4px}
.inventory-item{display:flex;justify-content:space-between;align-items:center;padding:10px;border-bottom:1px solid #334155;cursor:pointer}
.inventory-item:hover{background:#273449}
.item-name{font-weight:600}
.item-meta{font-size:12px;color:#94a3b8;margin-top:2px}
.item-quantity{background:#3b82f6;border-radius:12px;padding:2px 10px;font-weight:600}
.activity-item{display:flex;justify-content:space-between;padding:8px 0;border-bottom:1px solid #334155}
.activity-title{font-weight:600}
.activity-time{font-size:12px;color:#94a3b8}
.activity-cost{font-size:13px;color:#4ade80}
.empty-state,.error-state{padding:24px;text-align:center;color:#64748b}
.error-state{color:#f87171}
#pantry-image{max-width:100%;border-radius:8px;cursor:zoom-in}
.image-caption{font-size:12px;color:#94a3b8;margin-top:8px}
#search{background:#0f172a;border:1px solid #475569;border-radius:6px;color:#e2e8f0;padding:8px 12px;width:240px}
#refresh-btn{background:#3b82f6;border:none;border-radius:6px;color:#fff;cursor:pointer;font-size:16px;padding:8px 12px}
#refresh-btn.spinning{animation:spin .6s linear}
@keyframes spin{from{transform:rotate(0)}to{transform:rotate(360deg)}}
#fullscreen-modal{display:none;position:fixed;inset:0;background:rgba(0,0,0,.9);z-index:10;justify-content:center;align-items:center}
#fullscreen-modal img{max-width:95%;max-height:95%}
#fullscreen-close{position:absolute;top:16px;right:24px;color:#fff;font-size:32px;cursor:pointer}
</style>
</head>
<body>
<div class="header">
  <h1>🥫 Pantry Monitor</h1>
  <button id="refresh-btn" class="{{.SpinClass}}" onclick="manualRefresh()" title="Refresh">⟳</button>
</div>

<div class="panel">
  <h2>Statistics</h2>
  {{.Statistics}}
</div>

<div class="panel">
  <span class="panel-label" id="item-count">{{.InventoryLabel}}</span>
  <h2>Current Inventory</h2>
  <input id="search" type="text" placeholder="Search items…" oninput="filterItems(this.value)">
  <div id="inventory-list">{{.Inventory}}</div>
</div>

<div class="panel">
  <span class="panel-label">Last scan: {{.ScansLabel}}</span>
  <h2>Recent Activity</h2>
  <div id="scan-list">{{.Scans}}</div>
</div>

<div class="panel">
  <h2>Latest Image</h2>
  {{.Image}}
</div>

<div id="fullscreen-modal" onclick="closeFullscreen()">
  <span id="fullscreen-close">&times;</span>
  <img id="fullscreen-image" src="" alt="Pantry image fullscreen">
</div>

<script>
function filterItems(term) {
  term = term.toLowerCase();
  document.querySelectorAll('.inventory-item').forEach(function(row) {
    var name = row.getAttribute('data-name') || '';
    row.style.display = name.indexOf(term) >= 0 ? '' : 'none';
  });
}
function openFullscreen() {
  var img = document.getElementById('pantry-image');
  if (!img) return;
  document.getElementById('fullscreen-image').src = img.src;
  document.getElementById('fullscreen-modal').style.display = 'flex';
}
function closeFullscreen() {
  document.getElementById('fullscreen-modal').style.display = 'none';
}
document.addEventListener('keydown', function(e) {
  if (e.key === 'Escape') closeFullscreen();
});
function manualRefresh() {
  document.getElementById('refresh-btn').classList.add('spinning');
  fetch('/refresh', {method: 'POST'}).finally(function() {
    setTimeout(function() { location.reload(); }, 600);
  });
}
function itemDetail(id) {
  // Detail view not built yet.
  console.log('item clicked:', id);
}
</script>
</body>
</html>`
